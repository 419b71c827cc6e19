package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/geoknoesis/rdfstore/canon"
	"github.com/geoknoesis/rdfstore/castore"
	"github.com/geoknoesis/rdfstore/graph"
	"github.com/geoknoesis/rdfstore/rdf"
)

// parseArgs parses the flags of a sub-command and checks the number of
// positional arguments. A negative want accepts one or more.
func parseArgs(fs *flag.FlagSet, args []string, want int) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch {
	case want < 0 && fs.NArg() == 0:
		fs.Usage()
		return errors.New("expected at least one file")
	case want >= 0 && fs.NArg() != want:
		fs.Usage()
		return fmt.Errorf("expected %s, got %d", plural(want, "file"), fs.NArg())
	}
	return nil
}

func runCanon(ctx context.Context, e *env, args []string) (int, error) {
	fs := e.newFlagSet("canon")
	labels := fs.Bool("labels", false, "also print the issued identifiers and the hash")
	hash := fs.String("hash", string(canon.SHA256), "hash algorithm (SHA256, SHA384)")
	maxWork := fs.Int("max-work", 0, "bound the N-degree hashing work (0 means unbounded)")
	if err := parseArgs(fs, args, 1); err != nil {
		return exitError, err
	}

	quads, err := e.load(ctx, fs.Arg(0))
	if err != nil {
		return exitError, err
	}
	c := canon.New(
		canon.WithHashAlgorithm(canon.HashAlgorithm(strings.ToUpper(*hash))),
		canon.WithMaxWork(*maxWork),
		canon.WithLogger(e.logger),
	)
	res, err := c.CanonicalizeQuads(ctx, quads)
	if err != nil {
		return exitError, err
	}
	fmt.Fprint(e.stdout, res.SerializedNQuads())
	if !*labels {
		return exitOK, nil
	}

	ids := make([]string, 0, len(res.IssuedIdentifiers))
	for id := range res.IssuedIdentifiers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return labelIndex(res.IssuedIdentifiers[ids[i]]) < labelIndex(res.IssuedIdentifiers[ids[j]])
	})
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{"_:" + id, "_:" + res.IssuedIdentifiers[id]}
	}
	fmt.Fprintln(e.stdout)
	if err := writeTable(e.stdout, []string{"input", "canonical"}, rows); err != nil {
		return exitError, err
	}
	fmt.Fprintf(e.stdout, "\n%s %s\n", res.Algorithm(), res.Hash())
	return exitOK, nil
}

// labelIndex orders c14n labels numerically.
func labelIndex(label string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(label, "c14n"))
	if err != nil {
		return -1
	}
	return n
}

func runEqual(ctx context.Context, e *env, args []string) (int, error) {
	fs := e.newFlagSet("equal")
	budget := fs.Int("budget", 0, "bound the matcher's search (0 means unbounded)")
	if err := parseArgs(fs, args, 2); err != nil {
		return exitError, err
	}
	a, err := e.loadDataset(ctx, fs.Arg(0))
	if err != nil {
		return exitError, err
	}
	defer a.Close()
	b, err := e.loadDataset(ctx, fs.Arg(1))
	if err != nil {
		return exitError, err
	}
	defer b.Close()

	if hasNamedGraphs(a) || hasNamedGraphs(b) {
		return e.equalDatasets(a, b)
	}

	ga, _ := a.Graph(nil)
	gb, _ := b.Graph(nil)
	m := graph.NewMatcher(graph.WithSearchBudget(*budget), graph.WithMatcherLogger(e.logger))
	mapping, ok, err := m.Equal(ga.Triples(), gb.Triples())
	if errors.Is(err, rdf.ErrSearchBudget) {
		fmt.Fprintln(e.stdout, color.YellowString("inconclusive: search budget of %d exhausted", *budget))
		return exitMismatch, nil
	}
	if err != nil {
		return exitError, err
	}
	if !ok {
		fmt.Fprintln(e.stdout, color.RedString("not isomorphic"))
		return exitMismatch, nil
	}
	fmt.Fprintln(e.stdout, color.GreenString("isomorphic"))
	if len(mapping) == 0 {
		return exitOK, nil
	}

	rows := make([][]string, 0, len(mapping))
	for from, to := range mapping {
		rows = append(rows, []string{from.String(), to.String()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	fmt.Fprintln(e.stdout)
	if err := writeTable(e.stdout, []string{fs.Arg(0), fs.Arg(1)}, rows); err != nil {
		return exitError, err
	}
	return exitOK, nil
}

// equalDatasets compares datasets with named graphs by their canonical
// hashes, since blank nodes may be shared across graphs.
func (e *env) equalDatasets(a, b *graph.Dataset) (int, error) {
	c := canon.New(canon.WithLogger(e.logger))
	ra, err := c.Canonicalize(a)
	if err != nil {
		return exitError, err
	}
	rb, err := c.Canonicalize(b)
	if err != nil {
		return exitError, err
	}
	if ra.Hash() != rb.Hash() {
		fmt.Fprintln(e.stdout, color.RedString("not isomorphic"))
		return exitMismatch, nil
	}
	fmt.Fprintf(e.stdout, "%s (%s %s)\n", color.GreenString("isomorphic"), ra.Algorithm(), ra.Hash())
	return exitOK, nil
}

func runDiff(ctx context.Context, e *env, args []string) (int, error) {
	fs := e.newFlagSet("diff")
	if err := parseArgs(fs, args, 2); err != nil {
		return exitError, err
	}
	a, err := e.loadDataset(ctx, fs.Arg(0))
	if err != nil {
		return exitError, err
	}
	defer a.Close()
	b, err := e.loadDataset(ctx, fs.Arg(1))
	if err != nil {
		return exitError, err
	}
	defer b.Close()
	if hasNamedGraphs(a) || hasNamedGraphs(b) {
		e.logger.Warn("diff compares default graphs only; named graphs are ignored")
	}

	ga, _ := a.Graph(nil)
	gb, _ := b.Graph(nil)
	d, err := ga.Diff(gb)
	if err != nil {
		return exitError, err
	}
	if d.Equal {
		fmt.Fprintln(e.stdout, color.GreenString("no differences"))
		return exitOK, nil
	}

	rows := [][]string{
		{"removed triples", strconv.Itoa(len(d.RemovedTriples))},
		{"added triples", strconv.Itoa(len(d.AddedTriples))},
		{"removed sub-graphs", strconv.Itoa(len(d.RemovedMSGs))},
		{"added sub-graphs", strconv.Itoa(len(d.AddedMSGs))},
	}
	if err := writeTable(e.stdout, []string{"change", "count"}, rows); err != nil {
		return exitError, err
	}
	fmt.Fprintln(e.stdout)
	for _, t := range d.RemovedTriples {
		fmt.Fprintln(e.stdout, color.RedString("- %s", t))
	}
	for _, t := range d.AddedTriples {
		fmt.Fprintln(e.stdout, color.GreenString("+ %s", t))
	}
	printGroups(e, d.RemovedMSGs, "-", color.RedString)
	printGroups(e, d.AddedMSGs, "+", color.GreenString)
	return exitMismatch, nil
}

func printGroups(e *env, groups [][]rdf.Triple, sign string, paint func(string, ...interface{}) string) {
	for _, group := range groups {
		fmt.Fprintln(e.stdout, paint("%s {", sign))
		for _, t := range group {
			fmt.Fprintln(e.stdout, paint("%s   %s", sign, t))
		}
		fmt.Fprintln(e.stdout, paint("%s }", sign))
	}
}

func runStats(ctx context.Context, e *env, args []string) (int, error) {
	fs := e.newFlagSet("stats")
	noIndex := fs.Bool("no-index", false, "build collections without secondary indexes")
	if err := parseArgs(fs, args, 1); err != nil {
		return exitError, err
	}
	quads, err := e.load(ctx, fs.Arg(0))
	if err != nil {
		return exitError, err
	}
	opts := []graph.GraphOption{graph.WithLogger(e.logger)}
	if *noIndex {
		opts = append(opts, graph.WithCollectionOptions(graph.WithoutIndexes()))
	}
	ds, err := graph.DatasetFromQuads(quads, opts...)
	if err != nil {
		return exitError, err
	}
	defer ds.Close()

	positions := []string{"s", "p", "o", "sp", "so", "po"}
	headers := append([]string{"graph", "asserted", "quoted", "entries", "indexes"}, positions...)
	var rows [][]string
	for _, g := range ds.Graphs() {
		c, ok := g.Store().(*graph.Collection)
		if !ok {
			continue
		}
		st := c.Stats()
		row := []string{
			graphName(g.Name()),
			strconv.Itoa(st.Asserted),
			strconv.Itoa(st.Quoted),
			strconv.Itoa(st.Entries),
			st.Indexes.String(),
		}
		for _, pos := range positions {
			if n, ok := st.AssertedKeys[pos]; ok {
				row = append(row, strconv.Itoa(n))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	if err := writeTable(e.stdout, headers, rows); err != nil {
		return exitError, err
	}
	return exitOK, nil
}

func runStore(ctx context.Context, e *env, args []string) (int, error) {
	fs := e.newFlagSet("store")
	if err := parseArgs(fs, args, -1); err != nil {
		return exitError, err
	}
	store, err := castore.Open(castore.WithLogger(e.logger))
	if err != nil {
		return exitError, err
	}
	defer store.Close()

	var rows [][]string
	for _, path := range fs.Args() {
		quads, err := e.load(ctx, path)
		if err != nil {
			return exitError, err
		}
		digest, created, err := store.PutQuads(ctx, quads)
		if err != nil {
			return exitError, fmt.Errorf("%s: %w", path, err)
		}
		status := color.GreenString("new")
		if !created {
			status = color.YellowString("duplicate")
		}
		rows = append(rows, []string{path, shorten(digest, 16), status})
	}
	if err := writeTable(e.stdout, []string{"file", "digest", "status"}, rows); err != nil {
		return exitError, err
	}
	digests, err := store.Digests()
	if err != nil {
		return exitError, err
	}
	fmt.Fprintf(e.stdout, "\n%s, %s\n", plural(len(rows), "dataset"), plural(len(digests), "distinct digest"))
	return exitOK, nil
}

func (e *env) loadDataset(ctx context.Context, path string) (*graph.Dataset, error) {
	quads, err := e.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return graph.DatasetFromQuads(quads, graph.WithLogger(e.logger))
}

func hasNamedGraphs(ds *graph.Dataset) bool {
	for _, name := range ds.Names() {
		if name == nil {
			continue
		}
		if g, ok := ds.Graph(name); ok && !g.IsEmpty() {
			return true
		}
	}
	return false
}

func graphName(name rdf.Term) string {
	if name == nil {
		return "(default)"
	}
	return rdf.FormatTerm(name)
}
