package menu

import "strings"

// Node is one entry of the menu tree. A node with a Loader opens a level of
// its own; a node with only an Action runs it when chosen.
type Node struct {
	ID          string
	Loader      Loader
	Action      Action
	Children    map[string]*Node
	MultiSelect bool
}

// definition declares a node. Label is set for the entries shown on the
// root menu, in the order they appear.
type definition struct {
	id          string
	label       string
	loader      Loader
	action      Action
	multiSelect bool
}

var definitions = []definition{
	{id: "search", label: "search", action: SearchAction},
	{id: "lemmata", label: "find a lemma", action: LemmaHintAction},
	{id: "lemmata:hits", action: PickLemmaAction},
	{id: "lookup", label: "dictionary lookup", action: LookupAction},
	{id: "reverse", label: "reverse lookup", action: ReverseAction},
	{id: "browse", label: "browse", action: BrowseAction},
	{id: "maker", label: "index, vocabulary, text", loader: loadMakerMenu, action: MakerAction},
	{id: "selections", label: "selections", loader: loadSelectionsMenu, action: SelectionsSummaryAction},
	{id: "selections:make", loader: loadMakeSelectionMenu, action: MakeSelectionAction},
	{id: "selections:clear", loader: loadDeselectMenu, action: DeselectAction, multiSelect: true},
	{id: "selections:find", loader: loadFindMenu, action: FindAction},
	{id: "selections:hits:author", action: PickAuthorAction},
	{id: "selections:hits:works", action: PickWorkAction},
	{id: "selections:hits:passage", action: PickPassageAction},
	{id: "selections:hits:authgenre", action: pickShapeAction("genre")},
	{id: "selections:hits:workgenre", action: pickShapeAction("wkgenre")},
	{id: "selections:hits:authlocation", action: pickShapeAction("auloc")},
	{id: "selections:hits:worklocation", action: pickShapeAction("wkprov")},
	{id: "options", label: "options", loader: loadOptionsMenu, action: OptionAction},
	{id: "options:choice", action: OptionChoiceAction},
	{id: "history", label: "history", loader: loadHistoryMenu, action: HistoryAction},
	{id: "session", label: "session", loader: loadSessionMenu},
	{id: "session:reset", action: SessionResetAction},
	{id: "session:user", action: SessionUserAction},
	{id: "session:searchlist", action: SessionSearchListAction},
	{id: "session:genres", action: SessionGenreListAction},
	{id: "session:author", action: SessionAuthorAction},
}

// RootItems returns the top-level menu entries.
func RootItems() []Item {
	var items []Item
	for _, def := range definitions {
		if def.label != "" {
			items = append(items, Item{ID: def.id, Label: def.label})
		}
	}
	return items
}

// Registry indexes the menu tree by node id.
type Registry struct {
	root  *Node
	nodes map[string]*Node
}

// BuildRegistry assembles the tree. Ids are colon paths; a missing parent is
// created empty so every node is reachable from the root.
func BuildRegistry() *Registry {
	r := &Registry{nodes: make(map[string]*Node)}
	r.root = r.ensure("root")
	r.root.Loader = func(Context) ([]Item, error) { return RootItems(), nil }

	for _, def := range definitions {
		node := r.ensure(def.id)
		node.Loader = def.loader
		node.Action = def.action
		node.MultiSelect = def.multiSelect
	}
	return r
}

func (r *Registry) ensure(id string) *Node {
	if node, ok := r.nodes[id]; ok {
		return node
	}
	node := &Node{ID: id, Children: make(map[string]*Node)}
	r.nodes[id] = node
	if id != "root" {
		parentID, key := "root", id
		if cut := strings.LastIndexByte(id, ':'); cut >= 0 {
			parentID, key = id[:cut], id[cut+1:]
		}
		r.ensure(parentID).Children[key] = node
	}
	return node
}

// Root returns the registry root node.
func (r *Registry) Root() *Node {
	return r.root
}

// Find locates a node by id.
func (r *Registry) Find(id string) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Child resolves the node under parentID reached by key.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	node, ok := parent.Children[key]
	return node, ok
}
