package memkeep

// SetId is implemented by values that want to know their own Id.
type SetId interface {
	SetId(id Id)
}

// SetIdPointer is satisfied by *T if *T implements SetId.
type SetIdPointer[T any] interface {
	*T
	SetId
}

// Self can be embedded into a value to store its own Id.
type Self struct {
	Id Id `json:"id"`
}

func (s *Self) SetId(id Id) {
	s.Id = id
}

// Insert stores value and tells it its new Id before it is stored.
func Insert[T any, P SetIdPointer[T]](k *MemKeep[T], value T) (Id, error) {
	return k.InsertWithMut(value, func(value *T, id Id) {
		P(value).SetId(id)
	})
}

// InsertRef is like Insert but returns a pointer to the stored value.
func InsertRef[T any, P SetIdPointer[T]](k *MemKeep[T], value T) (*T, error) {
	id, err := Insert[T, P](k, value)
	if err != nil {
		return nil, err
	}

	stored, _ := k.Get(id)
	return stored, nil
}
