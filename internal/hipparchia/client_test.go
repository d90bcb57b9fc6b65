package hipparchia_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/testutil"
)

func newClient(t *testing.T) (*hipparchia.Client, *testutil.Server) {
	t.Helper()
	srv := testutil.NewServer(t)
	c, err := hipparchia.New(srv.URL)
	require.NoError(t, err)
	return c, srv
}

func TestNewRejectsEmptyURL(t *testing.T) {
	_, err := hipparchia.New("   ")
	require.Error(t, err)
}

func TestNewAddsScheme(t *testing.T) {
	c, err := hipparchia.New("localhost:8000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.Equal(t, "localhost", c.Host())
}

func TestConfirmPortReturnsServerPort(t *testing.T) {
	c, srv := newClient(t)
	port, err := c.ConfirmPort(context.Background(), hipparchia.KindSearch, "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, srv.Port(), port)
	assert.Equal(t, []string{"/search/confirm/abcd1234"}, srv.Requests())
}

func TestSubmitKeepsEncodedQuery(t *testing.T) {
	c, srv := newClient(t)
	srv.SetPayload("/search/standard/", `{"title":"t","searchsummary":"s","found":"<p>f</p>","image":"","js":"x"}`)

	p, err := c.Submit(context.Background(), "/search/standard/abcd1234", "skg=arma%20")
	require.NoError(t, err)
	assert.Equal(t, hipparchia.Payload{Title: "t", Summary: "s", Results: "<p>f</p>", Script: "x"}, p)
	assert.Equal(t, []string{"/search/standard/abcd1234?skg=arma%20"}, srv.Requests())
}

func TestSubmitWrapsStatusErrors(t *testing.T) {
	c, srv := newClient(t)
	srv.FailSubmissions(http.StatusInternalServerError)
	_, err := c.Submit(context.Background(), "/text/index/abcd1234", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hipparchia.ErrStatus))
}

func TestPayloadFoldsResponseShapes(t *testing.T) {
	var maker hipparchia.Payload
	require.NoError(t, json.Unmarshal([]byte(`{"searchsummary":"sum","thehtml":"<b>x</b>","newjs":"js"}`), &maker))
	assert.Equal(t, "sum", maker.Summary)
	assert.Equal(t, "<b>x</b>", maker.Results)
	assert.Equal(t, "js", maker.Script)

	var lex hipparchia.Payload
	require.NoError(t, json.Unmarshal([]byte(`{"newhtml":"<p>entry</p>","newjs":""}`), &lex))
	assert.Equal(t, "<p>entry</p>", lex.Results)
	assert.Empty(t, lex.Script)
}

func TestOptionsFlattenScalars(t *testing.T) {
	var opts hipparchia.Options
	require.NoError(t, json.Unmarshal([]byte(`{"a":"yes","b":true,"c":12,"d":null}`), &opts))
	assert.Equal(t, hipparchia.Options{"a": "yes", "b": "yes", "c": "12"}, opts)
}

func TestSetOptionThenOptions(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	require.NoError(t, c.SetOption(ctx, "earliestdate", "-850"))
	opts, err := c.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-850", opts["earliestdate"])
	assert.Equal(t, []string{"earliestdate=-850"}, srv.Pushes())
}

func TestBrowseAndRaw(t *testing.T) {
	c, srv := newClient(t)
	srv.SetPassage("gr0012w001_LN_1", `{"browseforwards":"gr0012w001_LN_2","browseback":"gr0012w001_LN_1","browserhtml":"<p>arma</p>"}`)
	srv.SetPassage("raw:gr0012w001_1.1", `{"browseforwards":"f","browseback":"b","browserhtml":"<p>raw</p>"}`)

	p, err := c.Browse(context.Background(), "gr0012w001_LN_1")
	require.NoError(t, err)
	assert.Equal(t, "gr0012w001_LN_2", p.Forward)
	assert.Equal(t, "<p>arma</p>", p.HTML)

	raw, err := c.BrowseRaw(context.Background(), "gr0012w001_1.1")
	require.NoError(t, err)
	assert.Equal(t, "f", raw.Forward)
}

func TestAuthorInfoIsCached(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	first, err := c.AuthorInfo(ctx, "gr0012")
	require.NoError(t, err)
	second, err := c.AuthorInfo(ctx, "gr0012")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, srv.RequestsWithPrefix("/get/json/authorinfo/"), 1)
}

func TestSearchListCacheDroppedOnSetOption(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	_, err := c.SearchList(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SetOption(ctx, "spuria", "no"))
	_, err = c.SearchList(ctx)
	require.NoError(t, err)
	assert.Len(t, srv.RequestsWithPrefix("/get/json/searchlistcontents"), 2)
}

func TestGenreListDecodesBareString(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		got, err := c.GenreList(ctx)
		require.NoError(t, err)
		assert.Equal(t, "<p>Epica</p>", got)
	}
	assert.Len(t, srv.RequestsWithPrefix("/get/json/genrelistcontents"), 1)
}

func TestCookiesEnabled(t *testing.T) {
	c, _ := newClient(t)
	assert.False(t, c.CookiesEnabled())
	_, err := c.Options(context.Background())
	require.NoError(t, err)
	assert.True(t, c.CookiesEnabled())

	withoutCookies, srv := newClient(t)
	srv.DisableCookies()
	_, err = withoutCookies.Options(context.Background())
	require.NoError(t, err)
	assert.False(t, withoutCookies.CookiesEnabled())
}

func TestCheckUserTreatsAnonymousAsEmpty(t *testing.T) {
	c, _ := newClient(t)
	user, err := c.CheckUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, user)
}

func TestParseKind(t *testing.T) {
	k, err := hipparchia.ParseKind("reverse")
	require.NoError(t, err)
	assert.Equal(t, hipparchia.KindReverseLookup, k)
	_, err = hipparchia.ParseKind("vectors")
	assert.Error(t, err)
}

func TestSelectionEndpoints(t *testing.T) {
	c, srv := newClient(t)
	srv.SetSelections(`{"timeexclusions":"","selections":"<span>Homer</span>","exclusions":"","newjs":"","numberofselections":1}`)
	ctx := context.Background()

	s, err := c.MakeSelection(ctx, "auth=gr0012")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)

	_, err = c.ClearSelection(ctx, "/selection/clear/auselections/f6de")
	require.NoError(t, err)
	_, err = c.ClearSelection(ctx, "/reset/session")
	require.Error(t, err)

	assert.Equal(t, []string{
		"/selection/make/_?auth=gr0012",
		"/selection/clear/auselections/f6de",
	}, srv.Requests())
}

func TestLexicalEndpoints(t *testing.T) {
	c, srv := newClient(t)
	srv.SetPayload("/lex/", `{"newhtml":"<p>μῆνις</p>","newjs":""}`)
	ctx := context.Background()

	p, err := c.Lookup(ctx, "μῆνις")
	require.NoError(t, err)
	assert.Equal(t, "<p>μῆνις</p>", p.Results)

	_, err = c.IDLookup(ctx, "greek/67485")
	require.NoError(t, err)
	_, err = c.IDLookup(ctx, "67485")
	require.Error(t, err)

	assert.Len(t, srv.RequestsWithPrefix("/lex/lookup/"), 1)
	assert.Equal(t, []string{"/lex/idlookup/greek/67485"}, srv.RequestsWithPrefix("/lex/idlookup/"))
}

func TestHintsSkipsShortTermsAndDecodesValues(t *testing.T) {
	c, srv := newClient(t)
	srv.SetHints("author", "Cicero [lt0474]", "Cicero, Quintus [lt0478]", "Catullus [lt0472]")
	ctx := context.Background()

	short, err := c.Hints(ctx, hipparchia.HintAuthor, "c")
	require.NoError(t, err)
	assert.Empty(t, short)
	assert.Empty(t, srv.RequestsWithPrefix("/hints/"))

	got, err := c.Hints(ctx, hipparchia.HintAuthor, "cic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cicero [lt0474]", "Cicero, Quintus [lt0478]"}, got)
	assert.Equal(t, []string{"/hints/author/_?term=cic"}, srv.RequestsWithPrefix("/hints/"))

	none, err := c.Hints(ctx, hipparchia.HintWorkGenre, "zz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorksOfIsCached(t *testing.T) {
	c, srv := newClient(t)
	srv.SetWorks("lt0972", "Satyrica (w001)", "Satyrica, fragmenta (w002)")
	ctx := context.Background()

	first, err := c.WorksOf(ctx, "lt0972")
	require.NoError(t, err)
	second, err := c.WorksOf(ctx, "lt0972")
	require.NoError(t, err)
	assert.Equal(t, []string{"Satyrica (w001)", "Satyrica, fragmenta (w002)"}, first)
	assert.Equal(t, first, second)
	assert.Len(t, srv.RequestsWithPrefix("/get/json/worksof/"), 1)
}

func TestWorkStructure(t *testing.T) {
	c, srv := newClient(t)
	srv.SetStructure("lt0474/058/1", `{"totallevels":3,"level":1,"label":"chapter","low":"1","high":"3","range":["1","2","3"]}`)
	ctx := context.Background()

	lvl, err := c.WorkStructure(ctx, "lt0474/058/1")
	require.NoError(t, err)
	assert.Equal(t, "chapter", lvl.Label)
	assert.Equal(t, []string{"1", "2", "3"}, lvl.Range)
	assert.False(t, lvl.Lowest())

	_, err = c.WorkStructure(ctx, "lt0474/999")
	assert.ErrorIs(t, err, hipparchia.ErrNoStructure)
}

func TestSplitHint(t *testing.T) {
	cases := []struct{ in, label, id string }{
		{"Cicero [lt0474]", "Cicero", "lt0474"},
		{"Hyginus, myth. [lt1263]", "Hyginus, myth.", "lt1263"},
		{"Satyrica (w001)", "Satyrica", "w001"},
		{"Epica", "Epica", ""},
	}
	for _, tc := range cases {
		label, id := hipparchia.SplitHint(tc.in)
		assert.Equal(t, tc.label, label, tc.in)
		assert.Equal(t, tc.id, id, tc.in)
	}
}
