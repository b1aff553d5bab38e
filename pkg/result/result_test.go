package result

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worldproger/mango-go/pkg/apierr"
)

func TestOk_Value(t *testing.T) {
	t.Parallel()

	r := Ok(42)
	require.True(t, r.IsOk())
	require.False(t, r.IsErr())

	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.Nil(t, r.ErrOrNil())
}

func TestErr_Value(t *testing.T) {
	t.Parallel()

	e := &apierr.Error{Kind: apierr.NotFound}
	r := Err[string](e)

	require.True(t, r.IsErr())
	_, ok := r.Value()
	require.False(t, ok)
	require.Same(t, e, r.ErrOrNil())
	require.Equal(t, "fallback", r.ValueOr("fallback"))
}

func TestErr_NilError_BecomesUnknown(t *testing.T) {
	t.Parallel()

	r := Err[int](nil)
	require.True(t, r.IsErr())
	require.Equal(t, apierr.Unknown, r.ErrOrNil().Kind)
}

func TestMustValue_PanicsOnError(t *testing.T) {
	t.Parallel()

	require.Equal(t, 7, Ok(7).MustValue())
	require.Panics(t, func() {
		Err[int](&apierr.Error{Kind: apierr.ServerError}).MustValue()
	})
}

func TestFold_ExactlyOneBranch(t *testing.T) {
	t.Parallel()

	var succ, fail int

	Ok("x").Fold(
		func(string) { succ++ },
		func(*apierr.Error) { fail++ },
	)
	require.Equal(t, 1, succ)
	require.Equal(t, 0, fail)

	Err[string](&apierr.Error{Kind: apierr.NoInternet}).Fold(
		func(string) { succ++ },
		func(*apierr.Error) { fail++ },
	)
	require.Equal(t, 1, succ)
	require.Equal(t, 1, fail)
}

func TestOnSuccessOnError_Taps(t *testing.T) {
	t.Parallel()

	var seen []string

	Ok(1).
		OnSuccess(func(int) { seen = append(seen, "success") }).
		OnError(func(*apierr.Error) { seen = append(seen, "error") })
	require.Equal(t, []string{"success"}, seen)

	seen = nil
	Err[int](&apierr.Error{Kind: apierr.BadRequest}).
		OnSuccess(func(int) { seen = append(seen, "success") }).
		OnError(func(*apierr.Error) { seen = append(seen, "error") })
	require.Equal(t, []string{"error"}, seen)
}

func TestMap_TransformsSuccessOnly(t *testing.T) {
	t.Parallel()

	doubled := Map(Ok(21), func(v int) int { return v * 2 })
	require.Equal(t, 42, doubled.MustValue())

	str := Map(Ok(5), func(v int) string { return "n" })
	require.Equal(t, "n", str.MustValue())

	e := &apierr.Error{Kind: apierr.Forbidden}
	mapped := Map(Err[int](e), func(v int) string { return "unreachable" })
	require.True(t, mapped.IsErr())
	require.Same(t, e, mapped.ErrOrNil())
}
