package index

import (
	"bufio"
	"fmt"
	stdio "io"
	"log/slog"
	"os"
	"strconv"

	"github.com/dot5enko/pointindex/io"
	"github.com/dot5enko/pointindex/schema"
)

// Loader resolves the files an index spec refers to. io.FileCache implements it.
type Loader interface {
	Mapping(path string) (*io.CorrelationMapping, error)
	TargetBuckets(path string) (io.TargetBuckets, error)
	OutlierList(path string) (schema.IndexList, error)
}

const defaultMeasureBetaSeed = 42

type specParser struct {
	name   string
	tokens []string
	pos    int
	loader Loader

	defaultGap int
}

type BuildOption func(p *specParser)

// WithDefaultGap sets the gap of composites that do not declare one.
func WithDefaultGap(gap int) BuildOption {
	return func(p *specParser) {
		p.defaultGap = gap
	}
}

// Build reads a whitespace separated index spec such as
//
//	CompositeIndex { gap 4 BinarySearchIndex { 0 } SecondaryBTreeIndex { 2 } }
//
// and returns the root index, which has to be a primary index.
func Build(r stdio.Reader, name string, loader Loader, opts ...BuildOption) (PrimaryIndexer, error) {

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	p := &specParser{name: name, loader: loader}
	for _, opt := range opts {
		opt(p)
	}

	if p.defaultGap < 0 {
		return nil, fmt.Errorf("%w: negative default gap %d", ErrSpecSyntax, p.defaultGap)
	}
	for scanner.Scan() {
		p.tokens = append(p.tokens, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index spec %s: %w", name, err)
	}

	root, err := p.parseIndex()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.tokens) {
		return nil, p.errorf(ErrSpecSyntax, "unexpected trailing token %q", p.tokens[p.pos])
	}

	primary, ok := root.(PrimaryIndexer)
	if !ok || root.Type() != Primary {
		return nil, fmt.Errorf("%w: %s is a %s index", ErrRootNotPrimary, name, root.Type())
	}

	return primary, nil
}

func BuildFile(path string, loader Loader, opts ...BuildOption) (PrimaryIndexer, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open index spec: %s", err.Error())
	}
	defer f.Close()

	return Build(f, path, loader, opts...)
}

func (p *specParser) errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s token %d: %s", kind, p.name, p.pos, fmt.Sprintf(format, args...))
}

func (p *specParser) next() (string, error) {
	if p.pos >= len(p.tokens) {
		return "", p.errorf(ErrSpecSyntax, "unexpected end of spec")
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

func (p *specParser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *specParser) expect(want string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok != want {
		return p.errorf(ErrSpecSyntax, "expected %q, got %q", want, tok)
	}
	return nil
}

func (p *specParser) int() (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, p.errorf(ErrSpecSyntax, "expected a non negative integer, got %q", tok)
	}
	return v, nil
}

func (p *specParser) parseIndex() (Indexer, error) {

	kind, err := p.next()
	if err != nil {
		return nil, err
	}

	slog.Debug("building index", "type", kind, "spec", p.name)

	switch kind {
	case "DummyIndex":
		return NewDummyIndex(), p.expectAll("{", "}")
	case "JustSortIndex":
		dim, err := p.singleInt()
		if err != nil {
			return nil, err
		}
		return NewJustSortIndex(dim), nil
	case "BinarySearchIndex":
		dim, err := p.singleInt()
		if err != nil {
			return nil, err
		}
		return NewBinarySearchIndex(dim), nil
	case "PrimaryBTreeIndex":
		return p.parsePrimaryBTree()
	case "MeasureBetaIndex":
		return p.parseMeasureBeta()
	case "SecondaryBTreeIndex":
		return p.parseSecondaryBTree()
	case "MappedCorrelationIndex":
		return p.parseMappedCorrelation()
	case "CombinedCorrelationIndex":
		return p.parseCombinedCorrelation()
	case "OutlierIndex":
		return p.parseOutlier()
	case "CompositeIndex":
		return p.parseComposite()
	case "OctreeIndex":
		return nil, p.errorf(ErrUnsupportedIndex, "OctreeIndex")
	default:
		return nil, p.errorf(ErrUnknownIndexType, "%q", kind)
	}
}

func (p *specParser) expectAll(tokens ...string) error {
	for _, t := range tokens {
		if err := p.expect(t); err != nil {
			return err
		}
	}
	return nil
}

// singleInt parses `{ n }`
func (p *specParser) singleInt() (int, error) {

	if err := p.expect("{"); err != nil {
		return 0, err
	}

	v, err := p.int()
	if err != nil {
		return 0, err
	}

	return v, p.expect("}")
}

func (p *specParser) parsePrimaryBTree() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	dim, err := p.int()
	if err != nil {
		return nil, err
	}

	pageSize, err := p.int()
	if err != nil {
		return nil, err
	}
	if pageSize == 0 {
		return nil, p.errorf(ErrSpecSyntax, "page size must be positive")
	}

	return NewPrimaryBTreeIndex(dim, pageSize), p.expect("}")
}

func (p *specParser) parseMeasureBeta() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	dim, err := p.int()
	if err != nil {
		return nil, err
	}

	child, err := p.parseIndex()
	if err != nil {
		return nil, err
	}

	secondary, ok := child.(SecondaryIndexer)
	if !ok {
		return nil, p.errorf(ErrSpecSyntax, "MeasureBetaIndex needs a secondary index, got %s", child.Type())
	}

	seed := uint64(defaultMeasureBetaSeed)
	if p.peek() != "}" {
		v, err := p.int()
		if err != nil {
			return nil, err
		}
		seed = uint64(v)
	}

	return NewMeasureBetaIndex(dim, secondary, seed), p.expect("}")
}

func (p *specParser) parseSecondaryBTree() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	dim, err := p.int()
	if err != nil {
		return nil, err
	}

	if p.peek() == "}" {
		p.pos++
		return NewSecondaryBTreeIndex(dim, nil), nil
	}

	path, err := p.next()
	if err != nil {
		return nil, err
	}

	outliers, err := p.loader.OutlierList(path)
	if err != nil {
		return nil, fmt.Errorf("secondary index outlier list: %w", err)
	}

	slog.Debug("secondary btree index with outlier list", "dim", dim, "outliers", len(outliers))

	return NewSecondaryBTreeIndex(dim, outliers), p.expect("}")
}

func (p *specParser) parseMappedCorrelation() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	mappingPath, err := p.next()
	if err != nil {
		return nil, err
	}

	targetsPath, err := p.next()
	if err != nil {
		return nil, err
	}

	if err := p.expect("}"); err != nil {
		return nil, err
	}

	mapping, err := p.loader.Mapping(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("correlation mapping: %w", err)
	}

	targets, err := p.loader.TargetBuckets(targetsPath)
	if err != nil {
		return nil, fmt.Errorf("correlation target buckets: %w", err)
	}

	idx, err := NewMappedCorrelationIndex(mapping, targets)
	if err != nil {
		return nil, fmt.Errorf("%s and %s: %w", mappingPath, targetsPath, err)
	}

	return idx, nil
}

func (p *specParser) parseCombinedCorrelation() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	first, err := p.parseIndex()
	if err != nil {
		return nil, err
	}

	mapped, ok := first.(*MappedCorrelationIndex)
	if !ok {
		return nil, p.errorf(ErrSpecSyntax, "CombinedCorrelationIndex needs a MappedCorrelationIndex first")
	}

	second, err := p.parseIndex()
	if err != nil {
		return nil, err
	}

	outliers, ok := second.(SecondaryIndexer)
	if !ok {
		return nil, p.errorf(ErrSpecSyntax, "CombinedCorrelationIndex needs a secondary index second, got %s", second.Type())
	}

	if err := p.expect("}"); err != nil {
		return nil, err
	}

	idx, err := NewCombinedCorrelationIndex(mapped, outliers)
	if err != nil {
		return nil, err
	}

	return idx, nil
}

func (p *specParser) parseOutlier() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	dim, err := p.int()
	if err != nil {
		return nil, err
	}

	path, err := p.next()
	if err != nil {
		return nil, err
	}

	if err := p.expect("}"); err != nil {
		return nil, err
	}

	outliers, err := p.loader.OutlierList(path)
	if err != nil {
		return nil, fmt.Errorf("outlier index list: %w", err)
	}

	return NewOutlierIndex(dim, outliers), nil
}

func (p *specParser) parseComposite() (Indexer, error) {

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	gap := p.defaultGap
	if p.peek() == "gap" {
		p.pos++
		v, err := p.int()
		if err != nil {
			return nil, err
		}
		gap = v
	}

	composite := NewCompositeIndex(gap, nil, nil)

	for {
		if p.peek() == "}" {
			p.pos++
			break
		}

		child, err := p.parseIndex()
		if err != nil {
			return nil, err
		}

		if family := composite.Family(); family != nil && child.Type() != Primary && family.Kind() != child.Type() {
			return nil, p.errorf(ErrMixedFamilies, "%s child after %s children", child.Type(), family.Kind())
		}

		switch c := child.(type) {
		case PrimaryIndexer:
			if composite.Primary() != nil {
				return nil, p.errorf(ErrSpecSyntax, "CompositeIndex with two primary indexes")
			}
			composite.SetPrimary(c)
		case SecondaryIndexer:
			composite.AddSecondary(c)
		case CorrelationIndexer:
			composite.AddCorrelation(c)
		case RewritingIndexer:
			composite.AddRewriter(c)
		default:
			return nil, p.errorf(ErrSpecSyntax, "unexpected %s child", child.Type())
		}
	}

	slog.Debug("built composite index", "gap", gap, "primary", composite.Primary() != nil)

	return composite, nil
}
