package sources_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/refcanon/refcanon/internal/sources"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/registry"
)

// writeFixture drops a source file into the manifest dir.
func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func memDeps() *sources.Deps {
	return &sources.Deps{Stores: store.NewMemorySet()}
}

func TestRegionsIngest(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "regions.csv",
		"CODEVALUE,PREFLABEL_FI,PREFLABEL_SE,STATUS,STARTDATE,ENDDATE\n"+
			"1,Uusimaa,Nyland,VALID,2010-01-01,\n"+
			"02,Varsinais-Suomi,Egentliga Finland,,,\n"+
			"999,too wide,,,,\n")

	manifest := &sources.Manifest{Dir: dir, Regions: sources.FileSource{File: "regions.csv"}}
	ingestor := sources.NewRegions(manifest)
	assert.Equal(t, "regions", ingestor.Dataset())
	assert.Equal(t, "regions.csv", ingestor.Version())

	deps := memDeps()
	summary, err := ingestor.Ingest(context.Background(), deps)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Skipped, "over-wide code is logged and dropped")

	region, err := deps.Stores.Regions.FindByCodeValue(context.Background(), "01")
	require.NoError(t, err)
	assert.Equal(t, "Uusimaa", region.Labels.Get("fi"))
	assert.Equal(t, "Nyland", region.Labels.Get("se"))
	assert.Equal(t, "regions.csv", region.Source)
	require.NotNil(t, region.StartDate)
	assert.Equal(t, "2010-01-01", region.StartDate.Format("2006-01-02"))

	// Second pass over the same file is a strict no-op.
	summary, err = ingestor.Ingest(context.Background(), deps)
	require.NoError(t, err)
	assert.Zero(t, summary.Created)
	assert.Zero(t, summary.Updated)
	assert.Equal(t, 2, summary.Unchanged)
}

func TestDryRunLeavesPersistedEntitiesUntouched(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "regions.csv", "CODEVALUE,PREFLABEL_FI\n1,Nyland\n")

	deps := &sources.Deps{Stores: store.NewMemorySet(), DryRun: true}
	ctx := context.Background()

	region, err := registry.NewRegion("01")
	require.NoError(t, err)
	region.ID = "region-01"
	region.Labels.Set("fi", "Uusimaa")
	require.NoError(t, deps.Stores.Regions.Save(ctx, region))

	manifest := &sources.Manifest{Dir: dir, Regions: sources.FileSource{File: "regions.csv"}}
	summary, err := sources.NewRegions(manifest).Ingest(ctx, deps)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated, "the diff is still computed and reported")

	persisted, err := deps.Stores.Regions.FindByCodeValue(ctx, "01")
	require.NoError(t, err)
	assert.Equal(t, "Uusimaa", persisted.Labels.Get("fi"), "dry run leaves the persisted entity untouched")
}

func TestMunicipalitiesResolveReferences(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "municipalities.csv",
		"CODEVALUE,PREFLABEL_FI,PREFLABEL_SE,ABBR_FI,STATUS,REF_REGION,REF_MAGISTRATE,REF_HEALTHCAREDISTRICT,REF_ELECTORALDISTRICT\n"+
			"91,Helsinki,Helsingfors,Hki,VALID,1,,25,1\n")

	deps := memDeps()
	ctx := context.Background()

	region, err := registry.NewRegion("01")
	require.NoError(t, err)
	region.ID = "region-01"
	require.NoError(t, deps.Stores.Regions.Save(ctx, region))

	district, err := registry.NewHealthCareDistrict("25")
	require.NoError(t, err)
	district.ID = "hcd-25"
	require.NoError(t, deps.Stores.HealthCareDistricts.Save(ctx, district))

	manifest := &sources.Manifest{Dir: dir, Municipalities: sources.FileSource{File: "municipalities.csv"}}
	summary, err := sources.NewMunicipalities(manifest).Ingest(ctx, deps)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	helsinki, err := deps.Stores.Municipalities.FindByCodeValue(ctx, "091")
	require.NoError(t, err)
	assert.Equal(t, "Helsinki", helsinki.Labels.Get("fi"))
	assert.Equal(t, "Hki", helsinki.Abbreviations.Get("fi"))

	require.NotNil(t, helsinki.Region)
	assert.Equal(t, "region-01", helsinki.Region.ID)
	assert.Equal(t, "01", helsinki.Region.CodeValue)

	require.NotNil(t, helsinki.HealthCareDistrict)
	assert.Equal(t, "hcd-25", helsinki.HealthCareDistrict.ID)

	assert.Nil(t, helsinki.Magistrate, "empty foreign code stays unset")
	assert.Nil(t, helsinki.ElectoralDistrict, "unresolved foreign code stays unset")
}

// fixedLine builds one Latin-1 fixed-width record with fields placed at
// their documented offsets.
func fixedLine(t *testing.T, width int, fields map[int]string) string {
	t.Helper()
	runes := []rune(strings.Repeat(" ", width))
	for start, value := range fields {
		copy(runes[start:], []rune(value))
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().String(string(runes))
	require.NoError(t, err)
	return encoded
}

func TestPostalCodesFixedWidth(t *testing.T) {
	dir := t.TempDir()
	line := fixedLine(t, 236, map[int]string{
		13:  "95970",
		18:  "ÄKÄSJOKISUU",
		48:  "ÄKÄSJOKI",
		60:  "ÄKÄSJOKISUU SV",
		110: "1",
		213: "498",
		216: "MUONIO",
	})
	writeFixture(t, dir, "PCF.dat", "PONOT TITLE LINE\n"+line+"\n")

	deps := memDeps()
	ctx := context.Background()

	muonio, err := registry.NewMunicipality("498")
	require.NoError(t, err)
	muonio.ID = "mun-498"
	require.NoError(t, deps.Stores.Municipalities.Save(ctx, muonio))

	manifest := &sources.Manifest{Dir: dir, PostalCodes: sources.FileSource{File: "PCF.dat"}}
	ingestor := sources.NewPostalCodes(manifest)

	summary, err := ingestor.Ingest(ctx, deps)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	area, err := deps.Stores.PostalCodes.FindByCodeValue(ctx, "95970")
	require.NoError(t, err)
	assert.Equal(t, "ÄKÄSJOKISUU", area.Labels.Get("fi"))
	assert.Equal(t, "ÄKÄSJOKISUU SV", area.Labels.Get("se"))
	assert.Equal(t, "ÄKÄSJOKI", area.Abbreviations.Get("fi"))
	assert.Equal(t, 1, area.TypeCode)
	require.NotNil(t, area.Municipality)
	assert.Equal(t, "mun-498", area.Municipality.ID)
	assert.Equal(t, "498", area.Municipality.CodeValue)

	// Re-ingesting the identical file performs zero mutations.
	summary, err = ingestor.Ingest(ctx, deps)
	require.NoError(t, err)
	assert.Zero(t, summary.Created)
	assert.Zero(t, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)
}

func TestStreetAddressesFoldAndChunk(t *testing.T) {
	dir := t.TempDir()
	// Three address lines for two streets; repeated street lines fold
	// into one entity.
	lines := []string{
		fixedLine(t, 216, map[int]string{13: "00100", 18: "Mannerheimintie", 48: "Mannerheimvägen", 213: "091"}),
		fixedLine(t, 216, map[int]string{13: "00100", 18: "Mannerheimintie", 48: "Mannerheimvägen", 213: "091"}),
		fixedLine(t, 216, map[int]string{13: "00120", 18: "Bulevardi", 48: "Bulevarden", 213: "091"}),
	}
	writeFixture(t, dir, "BAF.dat", "TITLE\n"+strings.Join(lines, "\n")+"\n")

	deps := memDeps()
	ctx := context.Background()

	manifest := &sources.Manifest{Dir: dir, StreetAddresses: sources.FileSource{File: "BAF.dat"}}
	summary, err := sources.NewStreetAddresses(manifest).Ingest(ctx, deps)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created, "duplicate street lines fold into one entity")

	street, err := deps.Stores.StreetAddresses.FindByCodeValue(ctx, registry.StreetAddressKey("091", "Mannerheimintie"))
	require.NoError(t, err)
	assert.Equal(t, "Mannerheimintie", street.Labels.Get("fi"))
	assert.Equal(t, "Mannerheimvägen", street.Labels.Get("se"))
	assert.Nil(t, street.Municipality, "no municipalities ingested yet")
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "manifest.yaml", strings.Join([]string{
		"regions:",
		"  file: regions.csv",
		"  version: 2024-06",
		"electoralDistricts:",
		"  file: vaalipiirit.xlsx",
		"  sheet: VAALIPIIRIT",
		"  rowFrom: 1",
		"  rowTo: 14",
		"businessIds:",
		"  url: https://api.example.test/bis/v1",
		"  pageSize: 500",
		"  maxAttempts: 3",
		"  retryDelaySeconds: 2",
	}, "\n"))

	m, err := sources.LoadManifest(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)

	assert.Equal(t, dir, m.Dir, "dir defaults to the manifest's own directory")
	assert.Equal(t, filepath.Join(dir, "regions.csv"), m.Path(m.Regions))
	assert.Equal(t, "2024-06", m.Regions.Version)
	assert.Equal(t, "VAALIPIIRIT", m.ElectoralDistricts.Sheet)
	assert.Equal(t, 14, m.ElectoralDistricts.RowTo)
	assert.Equal(t, 500, m.BusinessIDs.PageSize)
	assert.Equal(t, "2s", m.BusinessIDs.RetryDelay().String())

	_, err = sources.LoadManifest(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
