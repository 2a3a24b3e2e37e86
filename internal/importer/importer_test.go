package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/pkg/logger"
)

type fakeAccountRepo struct {
	existing map[string]bool // key: platform + "/" + lower(handle)
	upserts  []domain.Account
}

func (f *fakeAccountRepo) ListEnabled(context.Context, string) ([]domain.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) GetByHandle(context.Context, string, string) (*domain.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) Upsert(_ context.Context, acc domain.Account) (bool, error) {
	f.upserts = append(f.upserts, acc)
	key := acc.Platform + "/" + strings.ToLower(acc.Handle)
	if f.existing[key] {
		return false, nil
	}
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[key] = true
	return true, nil
}

func TestImportCSV(t *testing.T) {
	csv := `platform,handle,display_name,category,role,is_enabled,verification_url,notes
x,@agency1,Agency One,government,press,true,https://example.gov/agency1,
x,reporter2,Reporter Two,independent,,yes,,freelancer
x,weird3,Weird Three,not-a-category,,on,,
,nohandle,Missing Platform,government,,true,,
x,,No Handle,government,,true,,
`
	repo := &fakeAccountRepo{}
	imp := New(repo, logger.New(logger.Opts{Env: "test"}))

	result, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.Skipped)

	require.Len(t, repo.upserts, 3)
	assert.Equal(t, "agency1", repo.upserts[0].Handle, "leading @ must be stripped")
	assert.Equal(t, domain.CategoryGovernment, repo.upserts[0].Category)
	assert.True(t, repo.upserts[1].IsEnabled, "'yes' is truthy")
	assert.Equal(t, domain.CategoryUnknown, repo.upserts[2].Category, "unlisted category coerces to unknown")
}

func TestImportCSV_RerunUpdates(t *testing.T) {
	csv := "platform,handle,display_name,category,is_enabled\nx,agency1,Agency One,government,true\n"
	repo := &fakeAccountRepo{}
	imp := New(repo, logger.New(logger.Opts{Env: "test"}))

	first, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := imp.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
}

func TestParseBoolish(t *testing.T) {
	for _, truthy := range []string{"1", "true", "YES", "y", "On"} {
		assert.True(t, parseBoolish(truthy, false), truthy)
	}
	for _, falsy := range []string{"0", "false", "NO", "n", "Off"} {
		assert.False(t, parseBoolish(falsy, true), falsy)
	}
	assert.True(t, parseBoolish("", true))
	assert.True(t, parseBoolish("maybe", true), "unrecognized falls back to default")
}
