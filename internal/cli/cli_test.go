package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/app"
	"github.com/atomicstack/hipparchia-console/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	out, err string
	tui      *app.Config
}

func run(t *testing.T, srv *testutil.Server, args ...string) (result, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	var res result
	env := []string{
		"HIPPARCHIA_CONSOLE_SERVER=" + srv.URL,
		"HIPPARCHIA_CONSOLE_LOG_FILE=" + filepath.Join(t.TempDir(), "console.log"),
	}
	root := NewRootCommand(Options{
		Args:    args,
		Environ: env,
		Out:     &out,
		Err:     &errOut,
		RunTUI: func(cfg app.Config) error {
			res.tui = &cfg
			return nil
		},
	})
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.ExecuteContext(context.Background())
	res.out = out.String()
	res.err = errOut.String()
	return res, err
}

func TestRootRunsTUIWithResolvedConfig(t *testing.T) {
	srv := testutil.NewServer(t)
	res, err := run(t, srv, "--width", "90")
	require.NoError(t, err)
	require.NotNil(t, res.tui)
	assert.Equal(t, srv.URL, res.tui.ServerURL)
	assert.Equal(t, 90, res.tui.Width)
}

func TestLookupPrintsEntry(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetPayload("/lex/lookup/", `{"newhtml":"<p><b>arma</b>, arms, weapons</p>"}`)

	res, err := run(t, srv, "lookup", "arma")
	require.NoError(t, err)
	assert.Contains(t, res.out, "arms, weapons")
	assert.Contains(t, res.err, "finished")
}

func TestSearchListsLinks(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetPayload("/search/standard/", `{
		"title": "arma",
		"searchsummary": "<p>1 passage</p>",
		"found": "<p><browser id=\"gr0690w003_LN_1\">Aeneid 1.1</browser> arma virumque</p>",
		"js": "$('browser').click( function() { $.getJSON('/browse/'+this.id, function(p) {}); });"
	}`)

	res, err := run(t, srv, "search", "arma", "--links")
	require.NoError(t, err)
	assert.Contains(t, res.out, "arma virumque")
	assert.Contains(t, res.out, "1 passage")
	assert.Contains(t, res.out, "gr0690w003_LN_1")
	assert.Len(t, srv.RequestsWithPrefix("/search/standard/"), 1)
}

func TestSearchNeedsATerm(t *testing.T) {
	srv := testutil.NewServer(t)
	_, err := run(t, srv, "search")
	require.Error(t, err)
	assert.Empty(t, srv.RequestsWithPrefix("/search/standard/"))
}

func TestBrowseFollowsForward(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetPassage("gr0012w001_LN_1", `{"browseforwards":"gr0012w001_LN_2","browseback":"gr0012w001_LN_1","workid":"gr0012w001","browserhtml":"<p>ἄνδρα μοι ἔννεπε</p>"}`)
	srv.SetPassage("gr0012w001_LN_2", `{"browseforwards":"","browseback":"gr0012w001_LN_1","workid":"gr0012w001","browserhtml":"<p>πλάγχθη</p>"}`)

	res, err := run(t, srv, "browse", "gr0012w001_LN_1", "--next", "2")
	require.NoError(t, err)
	assert.Contains(t, res.out, "ἄνδρα μοι ἔννεπε")
	assert.Contains(t, res.out, "πλάγχθη")
	assert.Contains(t, res.err, "no passage")
}

func TestBrowseCitationUsesRawLocus(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetPassage("raw:gr0012w001|1|1", `{"workid":"gr0012w001","browserhtml":"<p>Μῆνιν ἄειδε</p>"}`)

	res, err := run(t, srv, "browse", "gr0012w001|1|1")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Μῆνιν ἄειδε")
}

func TestOptionsSetPushesEdits(t *testing.T) {
	srv := testutil.NewServer(t)
	res, err := run(t, srv, "options", "set", "onehit=yes")
	require.NoError(t, err)
	assert.True(t, slices.Contains(srv.Pushes(), "onehit=yes"), "pushes: %v", srv.Pushes())
	assert.Contains(t, res.out, "onehit")
}

func TestOptionsSetRejectsMalformedEdit(t *testing.T) {
	srv := testutil.NewServer(t)
	_, err := run(t, srv, "options", "set", "onehit")
	require.Error(t, err)
	assert.Empty(t, srv.Pushes())
}

func TestSelectionsAppliesSelectFlag(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetSelections(`{"selections":"<span>Homer</span>","numberofselections":1}`)

	res, err := run(t, srv, "selections", "--select", "auth=gr0012")
	require.NoError(t, err)
	assert.Len(t, srv.RequestsWithPrefix("/selection/make"), 1)
	assert.Contains(t, res.out, "Homer")
}

func TestExecuteReportsConfigErrors(t *testing.T) {
	var errOut bytes.Buffer
	code := Execute(Options{
		Args:    []string{"options", "list", "--refresh", "10ms"},
		Environ: []string{"HIPPARCHIA_CONSOLE_LOG_FILE=" + filepath.Join(t.TempDir(), "console.log")},
		Err:     &errOut,
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "refresh")
}
