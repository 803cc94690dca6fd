package values

import (
	"strings"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/strvals"
)

//Builder merges the values of a release from several layers. Later layers override earlier ones.
type Builder struct {
	layers []map[string]interface{}
	err    error
}

func NewBuilder() *Builder {
	return &Builder{}
}

//WithFiles adds the content of Helm values files (YAML)
func (b *Builder) WithFiles(files ...string) *Builder {
	for _, file := range files {
		if b.err != nil {
			return b
		}
		values, err := chartutil.ReadValuesFile(file)
		if err != nil {
			b.err = errors.Wrapf(err, "failed to read values file '%s'", file)
			return b
		}
		b.layers = append(b.layers, values.AsMap())
	}
	return b
}

//WithValues adds a map whose keys can use dot-notation (e.g. 'gpu.enabled')
func (b *Builder) WithValues(values map[string]interface{}) *Builder {
	layer := make(map[string]interface{})
	for key, value := range values {
		if err := mergo.Merge(&layer, convertToNestedMap(key, value), mergo.WithOverride); err != nil {
			b.err = errors.Wrapf(err, "failed to merge value '%s'", key)
			return b
		}
	}
	b.layers = append(b.layers, layer)
	return b
}

//WithSet adds values in the notation of 'helm --set' (e.g. 'a.b=1,c[0]=x')
func (b *Builder) WithSet(expressions ...string) *Builder {
	for _, expr := range expressions {
		if b.err != nil {
			return b
		}
		layer := make(map[string]interface{})
		if err := strvals.ParseInto(expr, layer); err != nil {
			b.err = errors.Wrapf(err, "failed to parse value expression '%s'", expr)
			return b
		}
		b.layers = append(b.layers, layer)
	}
	return b
}

func (b *Builder) Build() (map[string]interface{}, error) {
	if b.err != nil {
		return nil, b.err
	}
	result := make(map[string]interface{})
	for _, layer := range b.layers {
		if err := mergo.Merge(&result, layer, mergo.WithOverride); err != nil {
			return nil, errors.Wrap(err, "failed to merge values")
		}
	}
	return result, nil
}

//convertToNestedMap converts a key with dot-notation into a nested map (e.g. a.b.c=value become [a:[b:[c:value]]])
func convertToNestedMap(key string, value interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	tokens := strings.Split(key, ".")
	lastNestedMap := result
	for depth, token := range tokens {
		switch depth {
		case len(tokens) - 1: //last token reached, stop nesting
			lastNestedMap[token] = value
		default:
			lastNestedMap[token] = make(map[string]interface{})
			lastNestedMap = lastNestedMap[token].(map[string]interface{})
		}
	}
	return result
}
