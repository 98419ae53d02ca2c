package importer

import (
	"io/fs"
	"path"
	"strings"

	"sigs.k8s.io/yaml"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/qualifier"
)

// PathImporter traverses an io/fs.FS, parsing path-encoded conditions out
// of directory and file names per the segment grammar:
//
//	segment := name | cond ("," cond)*
//	cond     := (qualifier | token) "=" value | value
//
// A directory segment matching the cond grammar contributes to the base
// context inherited by every file beneath it; a segment that doesn't
// (an ordinary directory name) becomes part of the resource id path
// instead. File basenames may carry ".k=v" segments before the final
// extension, which attach conditions local to that one file.
type PathImporter struct {
	FS         fs.FS
	Qualifiers *qualifier.Registry

	// IgnoreFileTypes lists extensions (without the leading dot) to skip
	// entirely during import.
	IgnoreFileTypes []string
}

// New constructs a PathImporter over fsys.
func New(fsys fs.FS, qualifiers *qualifier.Registry, ignoreFileTypes ...string) *PathImporter {
	return &PathImporter{FS: fsys, Qualifiers: qualifiers, IgnoreFileTypes: ignoreFileTypes}
}

// Import walks the filesystem and returns one Importable per non-ignored
// file, in deterministic (lexicographic) walk order.
func (p *PathImporter) Import() ([]Importable, error) {
	var out []Importable
	err := fs.WalkDir(p.FS, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		imp, ignored, ierr := p.importFile(filePath)
		if ierr != nil {
			return ierr
		}
		if !ignored {
			out = append(out, imp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PathImporter) importFile(filePath string) (Importable, bool, error) {
	dir, file := path.Split(filePath)

	baseContext, pathPrefix, err := p.parseDirSegments(dir)
	if err != nil {
		return Importable{}, false, err
	}

	baseName, fileConditions, resourceTypeName, processed, ignored, err := p.parseFileName(file)
	if err != nil {
		return Importable{}, false, err
	}
	if ignored {
		return Importable{}, true, nil
	}

	content, err := fs.ReadFile(p.FS, filePath)
	if err != nil {
		return Importable{}, false, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", filePath, err.Error())
	}

	var item any
	if resourceTypeName == "json" {
		var decoded any
		// sigs.k8s.io/yaml.Unmarshal normalises YAML into JSON-compatible
		// values before decoding, and treats plain JSON as a YAML subset,
		// so the same path handles ".json" and ".yaml"/".yml" alike.
		if err := yaml.Unmarshal(content, &decoded); err != nil {
			return Importable{}, false, rerrors.NewAt(rerrors.ErrMalformedImportable, "MalformedImportable", filePath, err.Error())
		}
		item = decoded
	} else {
		item = content
	}

	return Importable{
		Type: "fsItem",
		Item: FsItem{
			PathPrefix:       pathPrefix,
			BaseName:         baseName,
			Item:             item,
			ResourceTypeName: resourceTypeName,
			Processed:        processed,
			Conditions:       fileConditions,
		},
		Context: baseContext,
	}, false, nil
}

// parseDirSegments parses every directory component of dir, accumulating
// conditions from condition-shaped segments and literal names from
// ordinary segments, in the order each appears.
func (p *PathImporter) parseDirSegments(dir string) ([]Condition, []string, error) {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return nil, nil, nil
	}

	var context []Condition
	var pathPrefix []string
	for _, seg := range strings.Split(dir, "/") {
		conds, isCondition, err := p.parseSegment(seg)
		if err != nil {
			return nil, nil, err
		}
		if isCondition {
			context = append(context, conds...)
		} else {
			pathPrefix = append(pathPrefix, seg)
		}
	}
	return context, pathPrefix, nil
}

// parseFileName splits a basename into its base name, local conditions,
// and resource-type-selecting extension, and reports whether the file
// should be ignored outright.
func (p *PathImporter) parseFileName(file string) (baseName string, conditions []Condition, resourceTypeName string, processed, ignored bool, err error) {
	parts := strings.Split(file, ".")
	if len(parts) < 2 {
		return "", nil, "", false, false, rerrors.NewAt(rerrors.ErrMalformedImportable, "MalformedImportable", file,
			"file has no extension")
	}

	ext := parts[len(parts)-1]
	for _, ignore := range p.IgnoreFileTypes {
		if strings.EqualFold(ignore, ext) {
			return "", nil, "", false, true, nil
		}
	}

	baseName = parts[0]
	for _, mid := range parts[1 : len(parts)-1] {
		conds, isCondition, perr := p.parseSegment(mid)
		if perr != nil {
			return "", nil, "", false, false, perr
		}
		if !isCondition {
			return "", nil, "", false, false, rerrors.NewAt(rerrors.ErrMalformedImportable, "MalformedImportable", file,
				"basename segment is neither a condition nor the final extension")
		}
		conditions = append(conditions, conds...)
	}

	if strings.EqualFold(ext, "json") || strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml") {
		return baseName, conditions, "json", false, false, nil
	}
	return baseName, conditions, "blob", true, false, nil
}

// parseSegment parses one "/"-delimited directory segment or "."-delimited
// basename segment. It returns isCondition=false (with no error) when the
// segment is an ordinary literal name rather than a condition.
func (p *PathImporter) parseSegment(seg string) ([]Condition, bool, error) {
	tokens := strings.Split(seg, ",")
	multi := len(tokens) > 1

	var conds []Condition
	for _, tok := range tokens {
		if tok == "" {
			return nil, false, rerrors.NewAt(rerrors.ErrMalformedImportable, "MalformedImportable", seg,
				"empty condition token")
		}

		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			key, value := tok[:eq], tok[eq+1:]
			_, q, err := p.Qualifiers.GetByNameOrToken(key)
			if err != nil {
				return nil, false, err
			}
			qtype, err := p.Qualifiers.Type(q)
			if err != nil {
				return nil, false, err
			}
			if err := qtype.Validate(value); err != nil {
				return nil, false, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidConditionValue", seg, err.Error())
			}
			conds = append(conds, Condition{Qualifier: q.Name, Value: qtype.Canonicalize(value)})
			continue
		}

		matches := p.Qualifiers.TerseCandidates(tok)
		switch len(matches) {
		case 0:
			if multi {
				return nil, false, rerrors.NewAt(rerrors.ErrMalformedImportable, "MalformedImportable", seg,
					"literal name cannot be combined with conditions in one segment")
			}
			return nil, false, nil
		case 1:
			q, _ := p.Qualifiers.ByHandle(matches[0])
			qtype, err := p.Qualifiers.Type(q)
			if err != nil {
				return nil, false, err
			}
			conds = append(conds, Condition{Qualifier: q.Name, Value: qtype.Canonicalize(tok)})
		default:
			return nil, false, rerrors.NewAt(rerrors.ErrAmbiguousTerseToken, "AmbiguousTerseToken", seg,
				"value matches more than one token-optional qualifier")
		}
	}

	return conds, true, nil
}
