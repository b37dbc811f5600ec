package corpus

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/latif/core"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCollection []byte

// File is the top-level structure of a verse collection YAML file.
//
// Example:
//
//	collection:
//	  name: "Shah Jo Risalo"
//	verses:
//	  - id: 1
//	    text: "الله واحد لا شريک، هن جو نالو وٺي ڪري"
//	    theme: DivineLove
//	    emotion: Peaceful
//	    sur: Sur Kalyan
type File struct {
	Collection Meta         `yaml:"collection"`
	Verses     []core.Verse `yaml:"verses"`
}

// Meta describes a verse collection.
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadFile reads and parses a collection YAML file from disk.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open collection %q: %w", path, err)
	}
	defer f.Close()

	cf, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: parse collection %q: %w", path, err)
	}
	return cf, nil
}

// LoadFromReader parses collection YAML from r. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*File, error) {
	var cf File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		if err == io.EOF {
			return &cf, nil
		}
		return nil, fmt.Errorf("corpus: decode collection yaml: %w", err)
	}
	return &cf, nil
}

// Default returns the embedded sample collection.
func Default() *File {
	cf, err := LoadFromReader(bytes.NewReader(defaultCollection))
	if err != nil {
		panic(fmt.Sprintf("corpus: embedded collection is invalid: %v", err))
	}
	return cf
}

// WriteFile encodes a collection as YAML to w.
func WriteFile(w io.Writer, cf *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cf); err != nil {
		return fmt.Errorf("corpus: encode collection yaml: %w", err)
	}
	return enc.Close()
}
