package colony

import "fmt"

type Kind uint8

const (
	KindHouse Kind = iota + 1
	KindFarm
)

func (k Kind) String() string {
	switch k {
	case KindHouse:
		return "house"
	case KindFarm:
		return "farm"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindHouse, KindFarm:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown building kind %d", uint8(k))
	}
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "house":
		*k = KindHouse
	case "farm":
		*k = KindFarm
	default:
		return fmt.Errorf("unknown building kind %q", text)
	}

	return nil
}
