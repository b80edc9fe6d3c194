package runtime

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// ObjectSpec is the serialized form of a single model object in a
// flat object table. Reference-typed features hold identifiers (or
// identifier lists), never nested objects.
type ObjectSpec struct {
	Id       string                 `yaml:"id"`
	Class    string                 `yaml:"class"`
	Features map[string]interface{} `yaml:"features,omitempty"`
}

// ObjectTable is the document form of a serialized resource: the
// object pool in insertion (pre-)order.
type ObjectTable struct {
	Objects []ObjectSpec `yaml:"objects"`
}

// Encoding converts between the serialized object table and live
// dynamic objects.
type Encoding interface {
	Decode(data []byte) ([]ecore.Object, error)
	Encode(objs []ecore.Object) ([]byte, error)
}

type yamlEncoding struct{}

var _ Encoding = (*yamlEncoding)(nil)

// NewYAMLEncoding handles YAML and, transitively, JSON documents.
func NewYAMLEncoding() Encoding {
	return &yamlEncoding{}
}

func (e *yamlEncoding) Decode(data []byte) ([]ecore.Object, error) {
	var table ObjectTable

	err := yaml.Unmarshal(data, &table)
	if err != nil {
		return nil, err
	}

	var objs []ecore.Object
	for i, spec := range table.Objects {
		o, err := DecodeObject(&spec)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objs = append(objs, o)
	}
	return objs, nil
}

func (e *yamlEncoding) Encode(objs []ecore.Object) ([]byte, error) {
	table := ObjectTable{}
	for _, o := range objs {
		table.Objects = append(table.Objects, *EncodeObject(o))
	}
	return yaml.Marshal(&table)
}

func DecodeObject(spec *ObjectSpec) (ecore.Object, error) {
	if spec.Class == "" {
		return nil, fmt.Errorf("missing object class")
	}
	id, ok := value.ParseId(spec.Id)
	if !ok {
		return nil, fmt.Errorf("invalid object id %q", spec.Id)
	}
	o := ecore.NewDynamicObject(id, spec.Class)
	names := make([]string, 0, len(spec.Features))
	for n := range spec.Features {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		v, err := DecodeValue(spec.Features[n])
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", n, err)
		}
		o.Set(n, v)
	}
	return o, nil
}

func EncodeObject(o ecore.Object) *ObjectSpec {
	spec := &ObjectSpec{
		Id:    o.GetId().String(),
		Class: o.GetClassName(),
	}
	for _, n := range o.FeatureNames() {
		if spec.Features == nil {
			spec.Features = map[string]interface{}{}
		}
		spec.Features[n] = EncodeValue(o.Get(n))
	}
	return spec
}

// DecodeValue maps a YAML/JSON scalar or list to a model value.
// Strings in canonical uuid form decode as object references; this
// is a convention of the table format, not of the value model.
func DecodeValue(d interface{}) (value.Value, error) {
	switch e := d.(type) {
	case nil:
		return nil, nil
	case bool:
		return value.Bool(e), nil
	case int:
		return value.Int(int64(e)), nil
	case int64:
		return value.Int(e), nil
	case float64:
		if e == float64(int64(e)) {
			return value.Int(int64(e)), nil
		}
		return value.Float(e), nil
	case string:
		if id, ok := value.ParseId(e); ok {
			return value.Ref(id), nil
		}
		return value.String(e), nil
	case []interface{}:
		l := make(value.List, 0, len(e))
		for _, s := range e {
			v, err := DecodeValue(s)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	}
	return nil, fmt.Errorf("unsupported value %T", d)
}

func EncodeValue(v value.Value) interface{} {
	switch e := v.(type) {
	case nil:
		return nil
	case value.Bool:
		return bool(e)
	case value.Int8:
		return int64(e)
	case value.Int16:
		return int64(e)
	case value.Int32:
		return int64(e)
	case value.Int:
		return int64(e)
	case value.Float32:
		return float64(e)
	case value.Float:
		return float64(e)
	case value.BigInt:
		return e.I.String()
	case value.BigDecimal:
		return e.D.Text('g', -1)
	case value.String:
		return string(e)
	case value.Ref:
		return value.ObjectId(e).String()
	case value.List:
		var l []interface{}
		for _, s := range e {
			l = append(l, EncodeValue(s))
		}
		return l
	}
	return value.AsString(v)
}
