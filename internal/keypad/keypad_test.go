package keypad

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/history"
)

type recorded struct {
	formula, result string
	mode            calc.AngleMode
}

type fakeRecorder struct {
	entries []recorded
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, formula, result string, mode calc.AngleMode) (history.Entry, error) {
	if f.err != nil {
		return history.Entry{}, f.err
	}
	f.entries = append(f.entries, recorded{formula, result, mode})
	return history.Entry{Formula: formula, Result: result, Mode: mode}, nil
}

// press runs script from the initial state and returns the final state.
func press(t *testing.T, k *Keypad, mode calc.AngleMode, script string) State {
	t.Helper()
	return pressFrom(t, k, Initial(mode), script)
}

func pressFrom(t *testing.T, k *Keypad, s State, script string) State {
	t.Helper()
	keys, err := ParseKeys(script)
	require.NoError(t, err)
	states, err := k.Run(context.Background(), s, keys)
	require.NoError(t, err)
	if len(states) == 0 {
		return s
	}
	return states[len(states)-1]
}

func TestApply_Sequences(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   State
	}{
		{"initial digit replaces zero", "7", State{Display: "7", Formula: "7"}},
		{"decimal keeps zero", ".", State{Display: "0.", Formula: "."}},
		{"operator resets display", "1 2 +", State{Display: "0", Formula: "12+", Phase: EnteringOperator}},
		{"addition", "2 + 3 =", State{Display: "5", Formula: "5", Phase: ShowingResult}},
		{"factorial", "5 ! =", State{Display: "120", Formula: "120", Phase: ShowingResult}},
		{"degree sine", "sin 3 0 ) =", State{Display: "0.5", Formula: "0.5", Phase: ShowingResult}},
		{"square key", "3 x2 =", State{Display: "9", Formula: "9", Phase: ShowingResult}},
		{"combination shortcut", "c 5 , 2 ) =", State{Display: "10", Formula: "10", Phase: ShowingResult}},
		{"comma keeps display", "npr 5 ,", State{Display: "5", Formula: "npr(5,"}},
		{"pi input", "pi", State{Display: "π", Formula: "π"}},
		{"operator after result", "2 + 3 = *", State{Display: "0", Formula: "5*", Phase: EnteringOperator}},
		{"input after result starts over", "2 + 3 = 7", State{Display: "7", Formula: "7"}},
		{"chained result", "2 + 3 = * 4 =", State{Display: "20", Formula: "20", Phase: ShowingResult}},
		{"equals on empty formula", "=", State{Display: "0"}},
		{"clear", "1 + 2 AC", State{Display: "0"}},
		{"escape clears", "9 Escape", State{Display: "0"}},
		{"enter evaluates", "4 / 2 Enter", State{Display: "2", Formula: "2", Phase: ShowingResult}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(t, New(nil), calc.Degree, tt.script)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_ErrorPhase(t *testing.T) {
	rec := &fakeRecorder{}
	k := New(rec)

	s := press(t, k, calc.Degree, "1 / 0 =")
	assert.Equal(t, State{Display: calc.DisplayError, Formula: "1/0", Phase: Error}, s)
	assert.Empty(t, rec.entries, "errors are never recorded")

	// Operators, functions, factorial and equals are ignored.
	assert.Equal(t, s, pressFrom(t, k, s, "+ sin ! ="))

	// Any input clears without being typed.
	assert.Equal(t, Initial(calc.Degree), pressFrom(t, k, s, "5"))

	// Backspace clears too.
	assert.Equal(t, Initial(calc.Degree), pressFrom(t, k, s, "back"))
}

func TestApply_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	k := New(rec)

	press(t, k, calc.Radian, "2 ^ 1 0 =")
	require.Len(t, rec.entries, 1)
	assert.Equal(t, recorded{"2^10", "1024", calc.Radian}, rec.entries[0])
}

func TestApply_RecorderError(t *testing.T) {
	boom := errors.New("disk full")
	k := New(&fakeRecorder{err: boom})

	s := press(t, New(nil), calc.Degree, "6 * 7")
	got, err := k.Apply(context.Background(), s, Equals)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, s, got)
}

func TestApply_Backspace(t *testing.T) {
	k := New(nil)

	tests := []struct {
		name   string
		script string
		want   State
	}{
		{"drops digit", "1 2 back", State{Display: "1", Formula: "1"}},
		{"last digit leaves zero", "7 back", State{Display: "0", Formula: ""}},
		{"operator restores operand", "1 2 + back", State{Display: "12", Formula: "12"}},
		{"operator restores right operand", "1 + 2 3 * back", State{Display: "23", Formula: "1+23"}},
		{"digit after operator", "1 2 + 3 back", State{Display: "0", Formula: "12+", Phase: EnteringOperator}},
		{"empty formula", "back", State{Display: "0"}},
		{"after result clears", "2 + 2 = back", State{Display: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, press(t, k, calc.Degree, tt.script))
		})
	}
}

func TestApply_PlusMinus(t *testing.T) {
	k := New(nil)

	s := press(t, k, calc.Degree, "5 +/-")
	assert.Equal(t, State{Display: "-5", Formula: "(-5)"}, s)

	s = press(t, k, calc.Degree, "2 + 3 +/- =")
	assert.Equal(t, "-1", s.Display)

	s = press(t, k, calc.Degree, "2 + 3 = +/-")
	assert.Equal(t, State{Display: "-5", Formula: "(-5)", Phase: ShowingResult}, s)

	// Zero and non-numeric displays are left alone.
	assert.Equal(t, Initial(calc.Degree), press(t, k, calc.Degree, "+/-"))
	s = press(t, k, calc.Degree, "( +/-")
	assert.Equal(t, State{Display: "(", Formula: "("}, s)
}

func TestApply_ToggleMode(t *testing.T) {
	k := New(nil)

	s := press(t, k, calc.Degree, "mode")
	assert.Equal(t, calc.Radian, s.Mode)

	s = pressFrom(t, k, s, "sin 0 ) = mode")
	assert.Equal(t, calc.Degree, s.Mode)
	assert.Equal(t, "0", s.Display)

	// Clear keeps the mode.
	s = pressFrom(t, k, s, "mode AC")
	assert.Equal(t, Initial(calc.Radian), s)
}

func TestRecall(t *testing.T) {
	k := New(nil)
	entry := history.Entry{Formula: "2+3", Result: "5"}

	s := Recall(Initial(calc.Radian), entry)
	assert.Equal(t, State{Display: "5", Formula: "2+3", Phase: ShowingResult, Mode: calc.Radian}, s)

	s = pressFrom(t, k, s, "+ 1 =")
	assert.Equal(t, "6", s.Display)
}

func TestRun_ReturnsEveryState(t *testing.T) {
	keys, err := ParseKeys("1 + 1 =")
	require.NoError(t, err)

	states, err := New(nil).Run(context.Background(), Initial(calc.Degree), keys)
	require.NoError(t, err)
	require.Len(t, states, 4)
	assert.Equal(t, []string{"1", "0", "1", "2"}, []string{
		states[0].Display, states[1].Display, states[2].Display, states[3].Display,
	})
}

func TestApply_UnknownKind(t *testing.T) {
	_, err := New(nil).Apply(context.Background(), Initial(calc.Degree), Key{Kind: KeyKind(99)})
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestState_String(t *testing.T) {
	s := State{Display: "5", Formula: "2+3", Phase: ShowingResult, Mode: calc.Radian}
	assert.Equal(t, "[rad] 5 | 2+3 (result)", s.String())
}
