package session

// Date bounds accepted by the server.
const (
	MinDate = -850
	MaxDate = 1500
)

type toggleDef struct {
	key, label string
	on, off    string
}

var defaultToggles = []toggleDef{
	{key: "authorssummary", label: "summarize authors"},
	{key: "authorflagging", label: "flag authors"},
	{key: "bracketangled", label: "highlight ⟨angled⟩ brackets"},
	{key: "bracketcurly", label: "highlight {curly} brackets"},
	{key: "bracketround", label: "highlight (round) brackets"},
	{key: "bracketsquare", label: "highlight [square] brackets"},
	{key: "christiancorpus", label: "christian corpus", on: "chrisactive", off: "chrnotisactive"},
	{key: "collapseattic", label: "collapse attic forms"},
	{key: "cosdistbylineorword", label: "cosine distance by line or word"},
	{key: "cosdistbysentence", label: "cosine distance by sentence"},
	{key: "debughtml", label: "debug html"},
	{key: "debugdb", label: "debug database"},
	{key: "debuglex", label: "debug lexicon"},
	{key: "debugparse", label: "debug parsing"},
	{key: "greekcorpus", label: "greek corpus", on: "grkisactive", off: "grkisnotactive"},
	{key: "incerta", label: "include incerta", on: "undatedistrue", off: "undatedisfalse"},
	{key: "indexskipsknownwords", label: "index skips known words"},
	{key: "inscriptioncorpus", label: "inscription corpus", on: "insisactive", off: "insnotisactive"},
	{key: "isldasearch", label: "topic model search"},
	{key: "isvectorsearch", label: "vector search"},
	{key: "latincorpus", label: "latin corpus", on: "latisactive", off: "latisnotactive"},
	{key: "morphdialects", label: "morphology: dialects"},
	{key: "morphduals", label: "morphology: duals"},
	{key: "morphemptyrows", label: "morphology: empty rows"},
	{key: "morphimper", label: "morphology: imperatives"},
	{key: "morphinfin", label: "morphology: infinitives"},
	{key: "morphfinite", label: "morphology: finite forms"},
	{key: "morphpcpls", label: "morphology: participles"},
	{key: "morphtables", label: "morphology: tables"},
	{key: "nearestneighborsquery", label: "nearest neighbors query"},
	{key: "papyruscorpus", label: "papyrus corpus", on: "ddpisactive", off: "ddpnotisactive"},
	{key: "phrasesummary", label: "summarize phrases"},
	{key: "principleparts", label: "principal parts"},
	{key: "quotesummary", label: "summarize quotes"},
	{key: "searchinsidemarkup", label: "search inside markup"},
	{key: "semanticvectorquery", label: "semantic vector query"},
	{key: "sensesummary", label: "summarize senses"},
	{key: "sentencesimilarity", label: "sentence similarity"},
	{key: "showwordcounts", label: "show word counts"},
	{key: "simpletextoutput", label: "simple text output"},
	{key: "spuria", label: "include spuria", on: "spuriaistrue", off: "spuriaisfalse"},
	{key: "suppresscolors", label: "suppress colors"},
	{key: "tensorflowgraph", label: "tensorflow graph"},
	{key: "topicmodel", label: "topic model"},
	{key: "varia", label: "include varia", on: "variaistrue", off: "variaisfalse"},
	{key: "vocbycount", label: "vocabulary by count"},
	{key: "vocscansion", label: "vocabulary scansion"},
	{key: "zaplunates", label: "replace lunate sigmas"},
	{key: "zapvees", label: "replace v with u"},
}

type pairDef struct {
	key, label        string
	yesLabel, noLabel string
	onInd, offInd     string
}

var defaultPairs = []pairDef{
	{key: "onehit", label: "one hit per work", yesLabel: "yes", noLabel: "no", onInd: "onehitistrue", offInd: "onehitisfalse"},
	{key: "headwordindexing", label: "headword indexing", yesLabel: "yes", noLabel: "no", onInd: "headwordindexingactive", offInd: "headwordindexinginactive"},
	{key: "indexbyfrequency", label: "index by frequency", yesLabel: "yes", noLabel: "no", onInd: "frequencyindexingactive", offInd: "frequencyindexinginactive"},
	{key: "rawinputstyle", label: "input style", yesLabel: "manual", noLabel: "autofill", onInd: "usingrawinput", offInd: "usingautoinput"},
	{key: "ldagraph", label: "topic model graph", yesLabel: "yes", noLabel: "no"},
	{key: "ldagraph2dimensions", label: "topic model graph dimensions", yesLabel: "2d", noLabel: "3d"},
	{key: "extendedgraph", label: "extended graph", yesLabel: "yes", noLabel: "no"},
}

// DefaultRegistry returns the controls a Hipparchia session exposes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range defaultToggles {
		t := &Toggle{Key: def.key, Label: def.label}
		if def.on != "" {
			t.Indicators = NewIndicatorPair(def.on, def.off)
		}
		r.AddToggle(t)
	}
	for _, def := range defaultPairs {
		p := &ExclusivePair{Key: def.key, Label: def.label, YesLabel: def.yesLabel, NoLabel: def.noLabel}
		if def.onInd != "" {
			p.Indicators = NewIndicatorPair(def.onInd, def.offInd)
		}
		r.AddPair(p)
	}
	r.AddSpinner(&Spinner{Key: "earliestdate", Label: "earliest date", Min: MinDate, Max: MaxDate, Step: 50, Value: MinDate})
	r.AddSpinner(&Spinner{Key: "latestdate", Label: "latest date", Min: MinDate, Max: MaxDate, Step: 50, Value: MaxDate})
	r.AddSpinner(&Spinner{Key: "linesofcontext", Label: "lines of context", Min: 0, Max: 30, Step: 1, Value: 4})
	r.AddSpinner(&Spinner{Key: "maxresults", Label: "maximum results", Min: 1, Max: 2500, Step: 50, Value: 200})
	r.AddSpinner(&Spinner{Key: "browsercontext", Label: "browser context", Min: 1, Max: 60, Step: 1, Value: 20})
	r.AddSpinner(&Spinner{Key: "proximity", Label: "proximity", Min: 1, Max: 10, Step: 1, Value: 1})
	r.AddSpinner(&Spinner{Key: "neighborcount", Label: "vector neighbors", Min: 4, Max: 40, Step: 1, Value: 10})
	r.AddSpinner(&Spinner{Key: "ldatopiccount", Label: "topic count", Min: 1, Max: 30, Step: 1, Value: 8})
	r.AddSelector(&Selector{Key: "sortorder", Label: "sort results by", Choices: []string{"shortname", "converted_date", "provenance", "universalid"}})
	r.AddSelector(&Selector{Key: "fontchoice", Label: "font", Choices: []string{"Noto", "Roboto", "Fira"}})
	r.AddSelector(&Selector{Key: "vecmodeler", Label: "vector modeler", Choices: []string{"w2v", "glove", "lexvec"}})
	r.AddSelector(&Selector{Key: "vtextprep", Label: "vector text preparation", Choices: []string{"winner", "unparsed", "yoked", "montecarlo"}})
	r.AddSelector(&Selector{Key: "nearornot", Label: "proximity sense", Choices: []string{"near", "notnear"}})
	r.AddSelector(&Selector{Key: "searchscope", Label: "proximity scope", Choices: []string{"lines", "words"}})
	return r
}

// CascadeKeys are the options whose edits change the corpus selection, so
// the selection summary and the option set are reloaded after a push.
func CascadeKeys() []string {
	return []string{
		"greekcorpus", "latincorpus", "inscriptioncorpus", "papyruscorpus", "christiancorpus",
		"spuria", "varia", "incerta",
		"earliestdate", "latestdate",
	}
}

// CorpusIndicatorKeys lists the toggles shown in the sidebar, in display order.
func CorpusIndicatorKeys() []string {
	return []string{"greekcorpus", "latincorpus", "inscriptioncorpus", "papyruscorpus", "christiancorpus", "spuria", "varia", "incerta"}
}

// VectorKinds lists the vector searches in the order the server checks them.
// The first one switched on decides how a search is submitted.
func VectorKinds() []string {
	return []string{
		"cosdistbysentence", "cosdistbylineorword", "semanticvectorquery", "nearestneighborsquery",
		"tensorflowgraph", "sentencesimilarity", "topicmodel",
	}
}

// VectorMode returns the vector search a submitted search should run, or ""
// for a standard search. Vector searches only apply while isvectorsearch is
// on.
func (r *Registry) VectorMode() string {
	if t, ok := r.Toggle("isvectorsearch"); !ok || !t.Checked {
		return ""
	}
	for _, key := range VectorKinds() {
		if t, ok := r.Toggle(key); ok && t.Checked {
			return key
		}
	}
	return ""
}
