package value

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// ObjectId is the opaque identifier used as the sole handle
// to any model object. Ids are unique within a process and
// never carry type information.
type ObjectId uuid.UUID

var NilId = ObjectId(uuid.Nil)

func NewId() ObjectId {
	return ObjectId(uuid.New())
}

// ParseId accepts the canonical textual uuid form.
func ParseId(s string) (ObjectId, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilId, false
	}
	return ObjectId(u), true
}

func (i ObjectId) String() string {
	return uuid.UUID(i).String()
}

func (i ObjectId) IsNil() bool {
	return i == NilId
}

// CompareIds provides the storage order for identifiers.
func CompareIds(a, b ObjectId) int {
	return bytes.Compare(a[:], b[:])
}

func (i ObjectId) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *ObjectId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*i = ObjectId(u)
	return nil
}
