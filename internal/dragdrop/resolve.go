package dragdrop

// Element describes one node in the ancestry under the pointer. A list
// container carries ListID; a card carries CardID, CardIndex and the
// ListID of the list that renders it.
type Element struct {
	ListID    string `json:"list_id,omitempty"`
	CardID    string `json:"card_id,omitempty"`
	CardIndex int    `json:"card_index,omitempty"`
}

// Resolve maps an element ancestry, innermost first, to a drop target.
// The list is the nearest ancestor with a list id. The card index comes
// from the nearest card rendered by that same list; without one the
// target is the end of the list. ok is false when no list is in the path.
func Resolve(path []Element) (Target, bool) {
	listID := ""
	for _, el := range path {
		if el.ListID != "" {
			listID = el.ListID
			break
		}
	}
	if listID == "" {
		return Target{}, false
	}

	for _, el := range path {
		if el.CardID != "" && el.ListID == listID && el.CardIndex >= 0 {
			return Target{ListID: listID, CardIndex: el.CardIndex}, true
		}
	}
	return Target{ListID: listID, CardIndex: EndOfList}, true
}
