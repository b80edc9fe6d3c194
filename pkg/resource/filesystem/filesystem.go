package filesystem

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/modelmesh-lang/modelmesh/pkg/resource"
	"github.com/modelmesh-lang/modelmesh/pkg/runtime"
)

// Factory loads model resources from object-table files on a
// filesystem. It handles plain paths as well as file:// URIs.
type Factory struct {
	fs       afero.Fs
	encoding runtime.Encoding
	suffixes []string
}

var _ resource.ResourceFactory = (*Factory)(nil)

// New creates a factory on the OS filesystem; tests pass an
// afero.NewMemMapFs instead.
func New(fss ...afero.Fs) *Factory {
	fs := afero.Fs(afero.NewOsFs())
	if len(fss) > 0 && fss[0] != nil {
		fs = fss[0]
	}
	return &Factory{
		fs:       fs,
		encoding: runtime.NewYAMLEncoding(),
		suffixes: []string{".yaml", ".yml", ".json"},
	}
}

func (f *Factory) CanHandle(uri string) bool {
	path := Path(uri)
	for _, s := range f.suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

func (f *Factory) CreateResource(uri string, set resource.ResourceSet) (resource.Resource, error) {
	data, err := afero.ReadFile(f.fs, Path(uri))
	if err != nil {
		return nil, err
	}
	objs, err := f.encoding.Decode(data)
	if err != nil {
		return nil, err
	}

	r := resource.New(uri)
	for _, o := range objs {
		r.Add(o)
	}
	return r, nil
}

// Save writes the pool of a resource back as an object table.
func (f *Factory) Save(r resource.Resource, path string) error {
	data, err := f.encoding.Encode(r.GetAllObjects())
	if err != nil {
		return err
	}
	return afero.WriteFile(f.fs, path, data, 0o600)
}

// Path strips a file:// scheme prefix; other URIs are used as plain
// filesystem paths.
func Path(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "file://"); ok {
		return rest
	}
	return uri
}
