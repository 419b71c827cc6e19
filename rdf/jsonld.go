package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/piprate/json-gold/ld"
)

// DefaultGraphName is the json-gold dataset key of the default graph.
const DefaultGraphName = "@default"

type jsonldDecoder struct {
	quads []Quad
	index int
	err   error
}

func newJSONLDDecoder(r io.Reader, opts Options) Reader {
	dec := &jsonldDecoder{}
	if err := dec.load(r, opts); err != nil {
		dec.err = wrapParseError(string(FormatJSONLD), "", -1, err)
	}
	return dec
}

func (d *jsonldDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	if d.index >= len(d.quads) {
		return Quad{}, io.EOF
	}
	q := d.quads[d.index]
	d.index++
	return q, nil
}

func (d *jsonldDecoder) Close() error {
	return nil
}

func (d *jsonldDecoder) load(r io.Reader, opts Options) error {
	var limit *statementLimitReader
	if opts.MaxStatementBytes > 0 {
		limit = &statementLimitReader{r: r, remaining: int64(opts.MaxStatementBytes)}
		r = limit
	}
	doc, err := ld.DocumentFromReader(r)
	if err != nil {
		if limit != nil && limit.remaining < 0 {
			return ErrStatementTooLong
		}
		return err
	}
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions(opts.BaseIRI)
	options.DocumentLoader = offlineLoader{}
	out, err := proc.ToRDF(doc, options)
	if err != nil {
		return err
	}
	dataset, ok := out.(*ld.RDFDataset)
	if !ok {
		return fmt.Errorf("jsonld: unexpected ToRDF result %T", out)
	}
	d.quads, err = FromLDDataset(dataset)
	return err
}

// statementLimitReader fails once more than the configured number of bytes
// has been read.
type statementLimitReader struct {
	r         io.Reader
	remaining int64
}

func (l *statementLimitReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrStatementTooLong
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrStatementTooLong
	}
	return n, err
}

// offlineLoader refuses remote contexts; documents must be self-contained.
type offlineLoader struct{}

func (offlineLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, "remote context not permitted: "+u)
}

// FromLDDataset converts a json-gold dataset into quads. Graphs are visited in
// name order with the default graph first.
func FromLDDataset(dataset *ld.RDFDataset) ([]Quad, error) {
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != DefaultGraphName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{DefaultGraphName}, names...)

	var quads []Quad
	for _, name := range names {
		for _, q := range dataset.Graphs[name] {
			s, err := fromLDNode(q.Subject)
			if err != nil {
				return nil, err
			}
			p, err := fromLDNode(q.Predicate)
			if err != nil {
				return nil, err
			}
			o, err := fromLDNode(q.Object)
			if err != nil {
				return nil, err
			}
			var g Term
			if q.Graph != nil {
				if g, err = fromLDNode(q.Graph); err != nil {
					return nil, err
				}
			} else if name != DefaultGraphName {
				g = graphNameTerm(name)
			}
			quads = append(quads, Quad{S: s, P: p, O: o, G: g})
		}
	}
	return quads, nil
}

func graphNameTerm(name string) Term {
	if strings.HasPrefix(name, "_:") {
		return BlankNode{ID: name[2:]}
	}
	return IRI{Value: name}
}

func fromLDNode(node ld.Node) (Term, error) {
	switch v := node.(type) {
	case *ld.IRI:
		return IRI{Value: v.Value}, nil
	case *ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(v.Attribute, "_:")}, nil
	case *ld.Literal:
		return NewLiteral(v.Value, IRI{Value: v.Datatype}, v.Language), nil
	case nil:
		return nil, ErrNilTerm
	default:
		return nil, fmt.Errorf("jsonld: unsupported node %T", node)
	}
}

// ToLDDataset converts quads into a json-gold dataset. Triple terms and
// variables have no JSON-LD representation and are rejected.
func ToLDDataset(quads []Quad) (*ld.RDFDataset, error) {
	dataset := ld.NewRDFDataset()
	for _, q := range quads {
		s, err := toLDNode(q.S)
		if err != nil {
			return nil, err
		}
		p, err := toLDNode(q.P)
		if err != nil {
			return nil, err
		}
		o, err := toLDNode(q.O)
		if err != nil {
			return nil, err
		}
		name := DefaultGraphName
		if q.G != nil {
			name = ldNodeName(q.G)
		}
		dataset.Graphs[name] = append(dataset.Graphs[name], ld.NewQuad(s, p, o, name))
	}
	return dataset, nil
}

func ldNodeName(term Term) string {
	if b, ok := term.(BlankNode); ok {
		return b.String()
	}
	return term.String()
}

func toLDNode(term Term) (ld.Node, error) {
	switch v := term.(type) {
	case IRI:
		return ld.NewIRI(v.Value), nil
	case BlankNode:
		return ld.NewBlankNode(v.String()), nil
	case Literal:
		switch {
		case v.Lang != "":
			return ld.NewLiteral(v.Lexical, ld.RDFLangString, v.Lang), nil
		case v.Datatype.Value != "":
			return ld.NewLiteral(v.Lexical, v.Datatype.Value, ""), nil
		default:
			return ld.NewLiteral(v.Lexical, ld.XSDString, ""), nil
		}
	case nil:
		return nil, ErrNilTerm
	default:
		return nil, fmt.Errorf("jsonld: %s terms cannot be represented", term.Kind())
	}
}

type jsonldEncoder struct {
	w      io.Writer
	opts   Options
	quads  []Quad
	err    error
	closed bool
}

func newJSONLDEncoder(w io.Writer, opts Options) Writer {
	return &jsonldEncoder{w: w, opts: opts}
}

func (e *jsonldEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	e.quads = append(e.quads, q)
	return nil
}

// Flush is a no-op; JSON-LD output is a single document written on Close.
func (e *jsonldEncoder) Flush() error {
	return e.err
}

func (e *jsonldEncoder) Close() error {
	if e.closed || e.err != nil {
		return e.err
	}
	e.closed = true
	dataset, err := ToLDDataset(e.quads)
	if err != nil {
		e.err = err
		return err
	}
	options := ld.NewJsonLdOptions(e.opts.BaseIRI)
	options.DocumentLoader = offlineLoader{}
	doc, err := ld.NewJsonLdApi().FromRDF(dataset, options)
	if err != nil {
		e.err = err
		return err
	}
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		e.err = err
	}
	return e.err
}
