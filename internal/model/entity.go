package model

// Kind identifies one of the closed set of entity kinds kept in the graph.
type Kind string

const (
	KindUser       Kind = "user"
	KindGame       Kind = "game"
	KindActor      Kind = "actor"
	KindCard       Kind = "card"
	KindDeck       Kind = "deck"
	KindAgreement  Kind = "agreement"
	KindValue      Kind = "value"
	KindCapability Kind = "capability"
	KindPosition   Kind = "position"
)

// Collection returns the store collection name for a kind. Collections are
// the first segment of every node path.
func (k Kind) Collection() string {
	switch k {
	case KindUser:
		return "users"
	case KindGame:
		return "games"
	case KindActor:
		return "actors"
	case KindCard:
		return "cards"
	case KindDeck:
		return "decks"
	case KindAgreement:
		return "agreements"
	case KindValue:
		return "values"
	case KindCapability:
		return "capabilities"
	case KindPosition:
		return "positions"
	default:
		return string(k)
	}
}

// IsValid reports whether k is one of the known entity kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindUser, KindGame, KindActor, KindCard, KindDeck,
		KindAgreement, KindValue, KindCapability, KindPosition:
		return true
	default:
		return false
	}
}

// KindFromCollection maps a collection name back to its kind. The second
// return is false for collections outside the closed set.
func KindFromCollection(collection string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Collection() == collection {
			return k, true
		}
	}
	return "", false
}

// Kinds lists every entity kind, in no particular order.
func Kinds() []Kind {
	return []Kind{
		KindUser, KindGame, KindActor, KindCard, KindDeck,
		KindAgreement, KindValue, KindCapability, KindPosition,
	}
}
