package inline

import (
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/samber/lo"
)

// Output is the JSON document written by a run.
type Output struct {
	Section string `json:"section"`
	State   string `json:"state"`
	Pages   int    `json:"pages"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
	Result  []any  `json:"result"`
}

func asJson(listing section.Listing, rows []section.Row) ([]byte, error) {
	output := &Output{
		Section: listing.Section,
		State:   listing.State.String(),
		Pages:   listing.Pages,
		Count:   len(rows),
		Result:  lo.Map(rows, func(r section.Row, _ int) any { return r.Value }),
	}
	if listing.Err != nil {
		output.Error = listing.Err.Error()
	}

	return json.Marshal(output)
}

func reflector() *jsonschema.Reflector {
	r := new(jsonschema.Reflector)
	r.Anonymous = true
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "time", "item", "output":
			return t.PkgPath()[strings.LastIndex(t.PkgPath(), "/")+1:] + "." + name
		}
		return name
	}
	return r
}

// Schema describes the result entries of e, or the whole output document when e is nil.
func Schema(e section.Entry) *jsonschema.Schema {
	if e == nil {
		return reflector().Reflect(&Output{})
	}
	return reflector().Reflect(e.Sample())
}
