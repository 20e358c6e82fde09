package registry

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/model"
)

func mustCreate(t *testing.T, r *Registry, name string) *model.Lead {
	t.Helper()
	lead, err := r.Create(model.Company{Name: name}, nil, "test", nil)
	require.NoError(t, err)
	return lead
}

func TestCreate_AssignsIdentityAndStatus(t *testing.T) {
	r := New()
	lead, err := r.Create(model.Company{Name: "Acme Corp"}, []model.Contact{{Email: "cto@acme.com", Role: model.RoleCTO}}, "csv-import", []string{"inbound"})
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.NotEmpty(t, lead.Company.ID)
	assert.NotEmpty(t, lead.Contacts[0].ID)
	assert.Equal(t, model.StatusNew, lead.Status)
	assert.Equal(t, "csv-import", lead.Source)
	assert.Equal(t, []string{"inbound"}, lead.Tags)
}

func TestCreate_UniqueIDs(t *testing.T) {
	r := New()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		lead := mustCreate(t, r, fmt.Sprintf("Company %d", i))
		require.False(t, seen[lead.ID])
		seen[lead.ID] = true
	}
	assert.Equal(t, 50, r.Len())
}

func TestCreate_InvalidCompany(t *testing.T) {
	r := New()
	_, err := r.Create(model.Company{}, nil, "", nil)
	require.Error(t, err)

	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, r.Len())
}

func TestCreate_InvalidContact(t *testing.T) {
	r := New()
	_, err := r.Create(model.Company{Name: "Acme"}, []model.Contact{{Phone: "not a phone"}}, "", nil)
	assert.Error(t, err)
}

func TestGet_Missing(t *testing.T) {
	r := New()
	assert.Nil(t, r.Get("nope"))
}

func TestList_NewestFirst(t *testing.T) {
	r := New()
	first := mustCreate(t, r, "First")
	second := mustCreate(t, r, "Second")
	third := mustCreate(t, r, "Third")

	// Force distinct creation times.
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	second.CreatedAt = time.Now().Add(-1 * time.Hour)
	third.CreatedAt = time.Now()

	got := r.List(Filter{})
	require.Len(t, got, 3)
	assert.Equal(t, "Third", got[0].Company.Name)
	assert.Equal(t, "Second", got[1].Company.Name)
	assert.Equal(t, "First", got[2].Company.Name)
}

func TestList_StatusFilter(t *testing.T) {
	r := New()
	q := mustCreate(t, r, "Qualified Co")
	mustCreate(t, r, "New Co")
	q.Status = model.StatusQualified

	got := r.List(Filter{Status: model.StatusQualified})
	require.Len(t, got, 1)
	assert.Equal(t, "Qualified Co", got[0].Company.Name)
}

func TestList_TagFilterAnyOf(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A")
	b := mustCreate(t, r, "B")
	mustCreate(t, r, "C")
	a.AddTag("high-priority")
	b.AddTag("medium-priority")

	got := r.List(Filter{Tags: []string{"high-priority", "medium-priority"}})
	assert.Len(t, got, 2)
}

func TestList_Limit(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		mustCreate(t, r, fmt.Sprintf("Co %d", i))
	}
	assert.Len(t, r.List(Filter{Limit: 3}), 3)
}

func TestUpdate_AllowListed(t *testing.T) {
	r := New()
	lead := mustCreate(t, r, "Acme")

	got, err := r.Update(lead.ID, FieldUpdates{
		"notes":  "spoke at conference",
		"status": model.StatusContacted,
		"tags":   []string{"warm"},
	})
	require.NoError(t, err)
	assert.Equal(t, "spoke at conference", got.Notes)
	assert.Equal(t, model.StatusContacted, got.Status)
	assert.True(t, got.HasTag("warm"))
}

func TestUpdate_UnknownFieldRejected(t *testing.T) {
	r := New()
	lead := mustCreate(t, r, "Acme")

	_, err := r.Update(lead.ID, FieldUpdates{"company": "overwrite"})
	require.Error(t, err)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "company", verr.Field)
}

func TestUpdate_WrongType(t *testing.T) {
	r := New()
	lead := mustCreate(t, r, "Acme")

	_, err := r.Update(lead.ID, FieldUpdates{"notes": 42})
	assert.Error(t, err)
}

func TestUpdate_WrongTypeLeavesLeadUntouched(t *testing.T) {
	r := New()
	lead := mustCreate(t, r, "Acme")
	lead.Notes = "original"

	// Map iteration order is unspecified, so repeat to catch the good key
	// being applied before the bad one is rejected.
	for i := 0; i < 40; i++ {
		_, err := r.Update(lead.ID, FieldUpdates{
			"notes":    "mutated",
			"metadata": "not-a-map",
		})
		require.Error(t, err)

		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Equal(t, "original", r.Get(lead.ID).Notes)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	r := New()
	_, err := r.Update("missing", FieldUpdates{"notes": "x"})
	require.Error(t, err)

	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestDelete_RoundTrip(t *testing.T) {
	r := New()
	lead := mustCreate(t, r, "Acme")

	assert.True(t, r.Delete(lead.ID))
	assert.Nil(t, r.Get(lead.ID))
	assert.Empty(t, r.List(Filter{}))
	assert.False(t, r.Delete(lead.ID))
}

func TestSnapshot_Independent(t *testing.T) {
	r := New()
	mustCreate(t, r, "Acme")
	snap := r.Snapshot()
	require.Len(t, snap, 1)

	r.Delete(snap[0].ID)
	assert.Len(t, snap, 1) // snapshot slice unaffected
	assert.Equal(t, 0, r.Len())
}
