package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// settings holds the host's user-configurable state: the parameters
// that shape how memory dumps, step traces, and output are formatted.
type settings struct {
	HexMode      bool `doc:"display register and memory values in hex"`
	MemDumpBytes int  `doc:"default number of memory bytes to dump"`
	MaxStepLines int  `doc:"maximum number of steps a single 'run' may take"`
	VerboseLoad  bool `doc:"print the statement map after a successful assemble"`
}

func newSettings() *settings {
	return &settings{
		HexMode:      true,
		MemDumpBytes: 16,
		MaxStepLines: 1_000_000,
		VerboseLoad:  false,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		fmt.Fprintf(w, "    %-16s %-8v (%s)\n", f.name, v, f.doc)
	}
}

// Kind reports the reflect.Kind of the named setting field.
func (s *settings) Kind(key string) (reflect.Kind, bool) {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid, false
	}
	return f.kind, true
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String) != (vIn.Kind() == reflect.String) || !vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type for setting " + key)
	}

	reflect.ValueOf(s).Elem().Field(f.index).Set(vIn.Convert(f.typ))
	return nil
}
