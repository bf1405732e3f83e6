package reconcile_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcanon/refcanon/pkg/errors"
	"github.com/refcanon/refcanon/pkg/reconcile"
	"github.com/refcanon/refcanon/pkg/registry"
)

// municipality builds an incoming municipality record.
func municipality(t *testing.T, code, labelFi string) *registry.Municipality {
	t.Helper()
	m, err := registry.NewMunicipality(code)
	require.NoError(t, err)
	m.Labels.Set("fi", labelFi)
	m.Source = "test-feed"
	return m
}

func applyMunicipality(existing, incoming *registry.Municipality) bool {
	return existing.Apply(incoming)
}

func TestCreateThenUpdateScenario(t *testing.T) {
	var persisted []*registry.Municipality

	// First ingestion: the municipality does not exist yet.
	u := reconcile.NewUpserter("municipalities", persisted, applyMunicipality)
	result, err := u.Reconcile([]*registry.Municipality{municipality(t, "091", "Helsinki")})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Updated)

	created := result.Created[0]
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Created.IsZero())
	persisted = append(persisted, created)

	id, createdAt, modifiedAt := created.ID, created.Created, created.Modified

	// Second ingestion of the identical source: strict no-op.
	u = reconcile.NewUpserter("municipalities", persisted, applyMunicipality)
	result, err = u.Reconcile([]*registry.Municipality{municipality(t, "091", "Helsinki")})
	require.NoError(t, err)
	assert.Empty(t, result.ToSave())
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, modifiedAt, created.Modified, "modified must not advance without a diff")

	// Third ingestion with a changed label: same id, modified advances.
	u = reconcile.NewUpserter("municipalities", persisted, applyMunicipality)
	result, err = u.Reconcile([]*registry.Municipality{municipality(t, "091", "Helsingfors")})
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	assert.Empty(t, result.Created)

	updated := result.Updated[0]
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, createdAt, updated.Created)
	assert.Equal(t, "Helsingfors", updated.Labels.Get("fi"))
	assert.NotEqual(t, modifiedAt, updated.Modified)
}

func TestReconcileIdempotence(t *testing.T) {
	batch := func() []*registry.Municipality {
		return []*registry.Municipality{
			municipality(t, "091", "Helsinki"),
			municipality(t, "049", "Espoo"),
			municipality(t, "837", "Tampere"),
		}
	}

	u := reconcile.NewUpserter("municipalities", nil, applyMunicipality)
	first, err := u.Reconcile(batch())
	require.NoError(t, err)
	require.Len(t, first.Created, 3)

	u = reconcile.NewUpserter("municipalities", first.Created, applyMunicipality)
	second, err := u.Reconcile(batch())
	require.NoError(t, err)
	assert.Zero(t, second.Changes())
	assert.Equal(t, 3, second.Unchanged)
}

func TestReconcileDuplicateKeyFatal(t *testing.T) {
	u := reconcile.NewUpserter("municipalities", nil, applyMunicipality)
	_, err := u.Reconcile([]*registry.Municipality{
		municipality(t, "091", "Helsinki"),
		municipality(t, "91", "Helsinki again"), // pads to the same key
	})
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateKey(err))

	var dup *errors.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "091", dup.CodeValue)
	assert.Equal(t, "municipalities", dup.Dataset)
}

func TestReconcileInjectedIdentity(t *testing.T) {
	seq := 0
	fixed := utc.Now()

	u := reconcile.NewUpserter("municipalities", nil, applyMunicipality,
		reconcile.WithIDFunc[*registry.Municipality](func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		reconcile.WithClock[*registry.Municipality](func() utc.Time { return fixed }),
	)

	result, err := u.Reconcile([]*registry.Municipality{
		municipality(t, "091", "Helsinki"),
		municipality(t, "049", "Espoo"),
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Equal(t, "id-1", result.Created[0].ID)
	assert.Equal(t, "id-2", result.Created[1].ID)
	assert.Equal(t, fixed, result.Created[0].Created)
}

func TestReconcileChunked(t *testing.T) {
	const n = 2500

	incoming := make([]*registry.StreetAddress, 0, n)
	for i := 0; i < n; i++ {
		s, err := registry.NewStreetAddress("091", "Katu "+strconv.Itoa(i))
		require.NoError(t, err)
		s.Labels.Set("fi", "Katu "+strconv.Itoa(i))
		incoming = append(incoming, s)
	}

	apply := func(existing, in *registry.StreetAddress) bool { return existing.Apply(in) }

	u := reconcile.NewUpserter("streetaddresses", nil, apply)
	result, err := u.ReconcileChunked(context.Background(), incoming, 100)
	require.NoError(t, err)
	assert.Len(t, result.Created, n)
	assert.Equal(t, n, result.Total())

	// Re-ingesting the same records over the created state is a no-op.
	u = reconcile.NewUpserter("streetaddresses", result.Created, apply)
	rerun := make([]*registry.StreetAddress, 0, n)
	for i := 0; i < n; i++ {
		s, err := registry.NewStreetAddress("091", "Katu "+strconv.Itoa(i))
		require.NoError(t, err)
		s.Labels.Set("fi", "Katu "+strconv.Itoa(i))
		rerun = append(rerun, s)
	}
	second, err := u.ReconcileChunked(context.Background(), rerun, 100)
	require.NoError(t, err)
	assert.Zero(t, second.Changes())
	assert.Equal(t, n, second.Unchanged)
}

func TestReconcileChunkedDuplicateAcrossChunks(t *testing.T) {
	a, err := registry.NewStreetAddress("091", "Sama katu")
	require.NoError(t, err)
	b, err := registry.NewStreetAddress("091", "Sama katu")
	require.NoError(t, err)

	u := reconcile.NewUpserter("streetaddresses", nil,
		func(existing, in *registry.StreetAddress) bool { return existing.Apply(in) })

	// One record per chunk: the duplicate check must still see the
	// whole batch.
	_, err = u.ReconcileChunked(context.Background(), []*registry.StreetAddress{a, b}, 1)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateKey(err))
}
