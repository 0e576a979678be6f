package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysTrue(any, string) bool { return true }

type bundle struct {
	name string
	err  error
}

func (b bundle) Register(r *Registry) error {
	if b.err != nil {
		return b.err
	}
	return r.RegisterAlias(b.name, descriptor.Prim(descriptor.String))
}

func TestRegisterAlias(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := New()

	// --- Act ---
	require.NoError(t, r.RegisterAlias("Position", descriptor.Tuple(descriptor.Prim(descriptor.Number), descriptor.Prim(descriptor.Number))))
	require.NoError(t, r.RegisterAlias("Position", descriptor.ArrayOf(descriptor.Prim(descriptor.Number))))

	// --- Assert ---
	got, ok := r.Alias("Position")
	require.True(t, ok)
	assert.Equal(t, descriptor.KindArray, got.Kind, "last registration wins")

	_, ok = r.Alias("Size")
	assert.False(t, ok)
	assert.Equal(t, []string{"Position"}, r.AliasNames())
}

func TestRegisterAlias_Rejects(t *testing.T) {
	t.Parallel()

	r := New()

	err := r.RegisterAlias("Number", descriptor.Prim(descriptor.String))
	assert.ErrorIs(t, err, ErrReservedName)

	err = r.RegisterAlias("", descriptor.Prim(descriptor.String))
	assert.ErrorIs(t, err, ErrReservedName)

	err = r.RegisterAlias("Empty", descriptor.Descriptor{})
	assert.ErrorIs(t, err, descriptor.ErrInvalidDescriptor)

	err = r.RegisterAlias("Nothing", descriptor.Tuple())
	assert.ErrorIs(t, err, descriptor.ErrInvalidDescriptor)
	_, ok := r.Alias("Nothing")
	assert.False(t, ok)

	err = r.RegisterFilter("gte", nil)
	assert.Error(t, err)
}

func TestSeal(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.RegisterFilter("ok", alwaysTrue))
	r.Seal()

	assert.True(t, r.Sealed())
	assert.ErrorIs(t, r.RegisterAlias("Slug", descriptor.Prim(descriptor.String)), ErrSealed)
	assert.ErrorIs(t, r.RegisterFilter("other", alwaysTrue), ErrSealed)

	_, ok := r.Filter("ok")
	assert.True(t, ok, "lookups keep working after sealing")
}

func TestUse(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Use(bundle{name: "A"}, bundle{name: "B"}))
	assert.Equal(t, []string{"A", "B"}, r.AliasNames())

	boom := errors.New("boom")
	err := r.Use(bundle{err: boom}, bundle{name: "C"})
	assert.ErrorIs(t, err, boom)
	_, ok := r.Alias("C")
	assert.False(t, ok, "modules after a failure are not applied")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		aliases    map[string]any
		wantErrors []error
	}{
		{
			name: "valid",
			aliases: map[string]any{
				"Position": []any{"Number", "Number"},
				"Cell":     map[string]any{"pos": "Position", "tag": "String|nonempty"},
			},
		},
		{
			name:       "missing alias",
			aliases:    map[string]any{"Cell": map[string]any{"pos": "Position"}},
			wantErrors: []error{ErrUnresolvedAlias},
		},
		{
			name:       "unknown filter",
			aliases:    map[string]any{"Age": "Number|between:1:2"},
			wantErrors: []error{ErrUnknownFilter},
		},
		{
			name:       "direct cycle",
			aliases:    map[string]any{"A": "B", "B": "A?"},
			wantErrors: []error{ErrAliasCycle, ErrUnresolvedAlias},
		},
		{
			name:       "self reference",
			aliases:    map[string]any{"Self": "Self"},
			wantErrors: []error{ErrAliasCycle},
		},
		{
			name:    "recursive structure is not a cycle",
			aliases: map[string]any{"Tree": map[string]any{"value": "Number", "children": []any{"Tree"}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			r := New()
			require.NoError(t, r.RegisterFilter("nonempty", alwaysTrue))
			for name, native := range tc.aliases {
				require.NoError(t, r.RegisterAlias(name, descriptor.MustParse(native)))
			}

			// --- Act ---
			err := r.Validate()

			// --- Assert ---
			if len(tc.wantErrors) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), "registry validation failed:\n- ")
			for _, want := range tc.wantErrors {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestCheckReferences(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.RegisterAlias("Slug", descriptor.MustRegex("^[a-z]+$")))

	assert.NoError(t, r.CheckReferences(descriptor.MustParse([]any{"Slug"})))

	err := r.CheckReferences(descriptor.MustParse([]any{"Slug", "Missing|gte:0"}))
	assert.ErrorIs(t, err, ErrUnresolvedAlias)
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.RegisterAlias("Shared", descriptor.Prim(descriptor.Number))
		}()
		go func() {
			defer wg.Done()
			r.Alias("Shared")
			r.AliasNames()
		}()
	}
	wg.Wait()

	_, ok := r.Alias("Shared")
	assert.True(t, ok)
}
