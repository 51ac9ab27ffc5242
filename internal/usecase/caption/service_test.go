package caption

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"captioncraft/internal/domain/caption"
	"captioncraft/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	res caption.GenerationResult
	err error
	got caption.GenerationRequest
}

func (m *mockGenerator) Generate(_ context.Context, req caption.GenerationRequest) (caption.GenerationResult, error) {
	m.got = req
	return m.res, m.err
}

type mockHistory struct {
	items     map[uuid.UUID][]caption.GenerationResult
	appendErr error
}

func newMockHistory() *mockHistory {
	return &mockHistory{items: map[uuid.UUID][]caption.GenerationResult{}}
}

func (m *mockHistory) Append(_ context.Context, id uuid.UUID, r caption.GenerationResult) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.items[id] = append([]caption.GenerationResult{r}, m.items[id]...)
	return nil
}

func (m *mockHistory) List(_ context.Context, id uuid.UUID) ([]caption.GenerationResult, error) {
	return append([]caption.GenerationResult{}, m.items[id]...), nil
}

func (m *mockHistory) MostRecent(_ context.Context, id uuid.UUID) (caption.GenerationResult, bool, error) {
	if len(m.items[id]) == 0 {
		return caption.GenerationResult{}, false, nil
	}
	return m.items[id][0], true, nil
}

func bakery() profile.Profile {
	return profile.Profile{
		ID:                  uuid.New(),
		BusinessName:        "Crumb",
		BusinessType:        "Bakery",
		BusinessDescription: "Artisan sourdough, family-run",
	}
}

func TestBuildRequest(t *testing.T) {
	req := BuildRequest(GenerationForm{
		PostType:          caption.PostTypeCustom,
		PostPurpose:       caption.PostPurposeSales,
		CustomType:        "Holiday special",
		AdditionalDetails: "Open on Sunday",
	}, bakery())

	assert.Equal(t, "Bakery", req.BusinessType)
	assert.Equal(t, "Artisan sourdough, family-run", req.BusinessDescription)
	assert.Equal(t, "Holiday special", req.ResolvedPostType())
	assert.Equal(t, "sales", req.ResolvedPostPurpose())
	assert.Equal(t, "Open on Sunday", req.AdditionalDetails)
}

func TestBuildRequest_EmptyProfilePassesThrough(t *testing.T) {
	req := BuildRequest(GenerationForm{PostType: caption.PostTypePromotional}, profile.Profile{})
	assert.Empty(t, req.BusinessType)
	assert.Empty(t, req.BusinessDescription)
}

func TestService_GenerateAppendsToHistory(t *testing.T) {
	p := bakery()
	gen := &mockGenerator{res: caption.GenerationResult{ID: "r1", Caption: "Fresh bread.", Hashtags: []string{"bakery"}, CreatedAt: time.Now()}}
	hist := newMockHistory()
	svc := NewService(gen, hist, nil)

	res, err := svc.Generate(context.Background(), p, GenerationForm{PostType: caption.PostTypePromotional, PostPurpose: caption.PostPurposeSales})
	require.NoError(t, err)
	assert.Equal(t, "r1", res.ID)
	assert.Equal(t, "Bakery", gen.got.BusinessType)

	latest, err := svc.Latest(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "r1", latest.ID)
}

func TestService_GenerateFailureLeavesHistory(t *testing.T) {
	p := bakery()
	gen := &mockGenerator{err: fmt.Errorf("%w: status=500", caption.ErrGenerationFailed)}
	hist := newMockHistory()
	svc := NewService(gen, hist, nil)

	_, err := svc.Generate(context.Background(), p, GenerationForm{})
	require.ErrorIs(t, err, caption.ErrGenerationFailed)
	assert.Empty(t, hist.items[p.ID])
}

func TestService_GenerateAppendFailure(t *testing.T) {
	gen := &mockGenerator{res: caption.GenerationResult{ID: "r1"}}
	hist := newMockHistory()
	hist.appendErr = errors.New("redis down")
	svc := NewService(gen, hist, nil)

	_, err := svc.Generate(context.Background(), bakery(), GenerationForm{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_LatestEmpty(t *testing.T) {
	svc := NewService(&mockGenerator{}, newMockHistory(), nil)
	_, err := svc.Latest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func seed(hist *mockHistory, id uuid.UUID, n int) {
	for i := 1; i <= n; i++ {
		_ = hist.Append(context.Background(), id, caption.GenerationResult{ID: fmt.Sprintf("r%d", i)})
	}
}

func ids(items []caption.GenerationResult) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestService_List(t *testing.T) {
	p := uuid.New()
	hist := newMockHistory()
	seed(hist, p, 4)
	svc := NewService(&mockGenerator{}, hist, nil)

	all, err := svc.List(context.Background(), p, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r3", "r2", "r1"}, ids(all))

	two, err := svc.List(context.Background(), p, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r3"}, ids(two))
}

func TestService_Previous(t *testing.T) {
	p := uuid.New()
	hist := newMockHistory()
	seed(hist, p, 8)
	svc := NewService(&mockGenerator{}, hist, nil)

	got, err := svc.Previous(context.Background(), p, "r8", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r7", "r6", "r5", "r4"}, ids(got))

	got, err = svc.Previous(context.Background(), p, "r3", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r8", "r7", "r6", "r5", "r4"}, ids(got))

	got, err = svc.Previous(context.Background(), p, "r8", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"r7"}, ids(got))

	got, err = svc.Previous(context.Background(), p, "r8", 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_PreviousSingleEntry(t *testing.T) {
	p := uuid.New()
	hist := newMockHistory()
	seed(hist, p, 1)
	svc := NewService(&mockGenerator{}, hist, nil)

	got, err := svc.Previous(context.Background(), p, "r1", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.Previous(context.Background(), p, "other", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_PreviousEmpty(t *testing.T) {
	svc := NewService(&mockGenerator{}, newMockHistory(), nil)
	got, err := svc.Previous(context.Background(), uuid.New(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
