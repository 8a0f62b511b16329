package polls

import (
	"fmt"

	"voteRelay/internal/clarity"
	"voteRelay/internal/model"
)

// PollFromValue builds a Poll from a get-poll result. empty is true when the
// contract has no poll at id. Missing or mistyped tuple fields become zero values.
func PollFromValue(id uint64, v clarity.Value) (poll model.Poll, empty bool, err error) {
	switch inner := clarity.Unwrap(v).(type) {
	case clarity.None:
		return model.Poll{}, true, nil
	case clarity.ResponseErr:
		return model.Poll{}, false, fmt.Errorf("contract returned %s", inner)
	case clarity.Tuple:
		return model.Poll{
			PollID:      id,
			Creator:     principalField(inner, "creator"),
			Title:       stringField(inner, "title"),
			Description: stringField(inner, "description"),
			YesVotes:    uintField(inner, "yes-votes"),
			NoVotes:     uintField(inner, "no-votes"),
			EndBlock:    uintField(inner, "end-block"),
			IsActive:    boolField(inner, "is-active"),
		}, false, nil
	default:
		return model.Poll{}, false, fmt.Errorf("expected poll tuple, got %s", v)
	}
}

func principalField(t clarity.Tuple, name string) string {
	switch p := t[name].(type) {
	case clarity.StandardPrincipal:
		return p.Address()
	case clarity.ContractPrincipal:
		return p.ID()
	}
	return ""
}

func stringField(t clarity.Tuple, name string) string {
	switch s := t[name].(type) {
	case clarity.StringUTF8:
		return string(s)
	case clarity.StringASCII:
		return string(s)
	}
	return ""
}

func uintField(t clarity.Tuple, name string) uint64 {
	u, ok := t[name].(clarity.UInt)
	if !ok || u.V == nil || !u.V.IsUint64() {
		return 0
	}
	return u.V.Uint64()
}

func boolField(t clarity.Tuple, name string) bool {
	b, _ := t[name].(clarity.Bool)
	return bool(b)
}
