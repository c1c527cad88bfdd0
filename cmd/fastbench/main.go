// Command fastbench exercises the fastcol containers and views with
// timed scenarios and drives snapshot capture/restore round-trips against
// the pluggable snapshot stores (memory, bolt file, S3-compatible).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	fastcol "github.com/fastcol/go-fastcol"
	"github.com/fastcol/go-fastcol/snapshot"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	countFlag := flag.Int("n", 100000, "Number of elements to generate")
	workersFlag := flag.Int("workers", 0, "Parallel view workers (0 = GOMAXPROCS)")
	storeFlag := flag.String("store", "memory", "Snapshot store type: memory, bolt, s3")
	pathFlag := flag.String("path", "fastbench.db", "Bolt database path")
	endpointFlag := flag.String("endpoint", "localhost:9000", "S3 endpoint")
	bucketFlag := flag.String("bucket", "fastbench", "S3 bucket name")
	accessFlag := flag.String("access", "minioadmin", "S3 access key")
	secretFlag := flag.String("secret", "minioadmin", "S3 secret key")
	sslFlag := flag.Bool("ssl", false, "Use SSL for S3")
	compressFlag := flag.Bool("compress", true, "Compress snapshot blobs with zstd")
	versionFlag := flag.Int64("version", 0, "Snapshot version to restore or diff from")
	targetFlag := flag.Int64("target", 0, "Target version for diff")
	verboseFlag := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	cfg := config{
		count:    *countFlag,
		workers:  *workersFlag,
		store:    *storeFlag,
		path:     *pathFlag,
		endpoint: *endpointFlag,
		bucket:   *bucketFlag,
		access:   *accessFlag,
		secret:   *secretFlag,
		ssl:      *sslFlag,
		compress: *compressFlag,
		version:  *versionFlag,
		target:   *targetFlag,
		verbose:  *verboseFlag,
	}

	switch command {
	case "help":
		printHelp()
	case "bench":
		runBench(cfg)
	case "snapshot":
		runSnapshot(cfg)
	case "restore":
		runRestore(cfg)
	case "versions":
		runVersions(cfg)
	case "diff":
		runDiff(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

type config struct {
	count    int
	workers  int
	store    string
	path     string
	endpoint string
	bucket   string
	access   string
	secret   string
	ssl      bool
	compress bool
	version  int64
	target   int64
	verbose  bool
}

func printHelp() {
	fmt.Println("fastbench - fastcol container and snapshot tool")
	fmt.Println("Usage: fastbench [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  help       - Show this help message")
	fmt.Println("  bench      - Run timed container and view scenarios")
	fmt.Println("  snapshot   - Capture a generated collection into the snapshot store")
	fmt.Println("  restore    - Restore a snapshot version into a fresh collection")
	fmt.Println("  versions   - List snapshot versions in the store")
	fmt.Println("  diff       - Compare two snapshot versions")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -n         Number of elements to generate")
	fmt.Println("  -workers   Parallel view workers (0 = GOMAXPROCS)")
	fmt.Println("  -store     Snapshot store type (memory, bolt, s3)")
	fmt.Println("  -path      Bolt database path")
	fmt.Println("  -endpoint  S3 endpoint")
	fmt.Println("  -bucket    S3 bucket name")
	fmt.Println("  -access    S3 access key")
	fmt.Println("  -secret    S3 secret key")
	fmt.Println("  -compress  Compress snapshot blobs with zstd")
	fmt.Println("  -version   Snapshot version to restore or diff from")
	fmt.Println("  -target    Target version for diff")
	fmt.Println("  -verbose   Verbose output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  fastbench bench -n=1000000 -workers=8")
	fmt.Println("  fastbench snapshot -store=bolt -path=events.db -n=50000")
	fmt.Println("  fastbench restore -store=bolt -path=events.db -version=1")
	fmt.Println("  fastbench diff -store=bolt -version=1 -target=2")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// createStore builds the snapshot store named by cfg.store. The returned
// cleanup releases file or connection resources and is safe to call once.
func createStore(ctx context.Context, cfg config) (snapshot.Store, func(), error) {
	switch cfg.store {
	case "memory":
		return snapshot.NewMemoryStore(), func() {}, nil
	case "bolt":
		bs, err := snapshot.OpenBolt(cfg.path)
		if err != nil {
			return nil, nil, err
		}
		return bs, func() { _ = bs.Close() }, nil
	case "s3":
		s3, err := snapshot.NewS3Store(ctx, snapshot.S3Config{
			Endpoint:        cfg.endpoint,
			AccessKeyID:     cfg.access,
			SecretAccessKey: cfg.secret,
			Bucket:          cfg.bucket,
			UseSSL:          cfg.ssl,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type: %s", cfg.store)
	}
}

// sampleTable generates n pseudo-random order values with a fixed seed, so
// snapshot and diff runs over the same -n agree on the data.
func sampleTable(n int) *fastcol.Table[int] {
	rng := rand.New(rand.NewSource(42))
	tbl := fastcol.NewTable[int]()
	for i := 0; i < n; i++ {
		tbl.Add(rng.Intn(n * 10))
	}
	return tbl
}

type scenario struct {
	name string
	run  func() string
}

func runBench(cfg config) {
	fmt.Printf("fastbench: %s elements, store=%s\n", humanize.Comma(int64(cfg.count)), cfg.store)

	tbl := sampleTable(cfg.count)
	even := func(v int) bool { return v%2 == 0 }

	scenarios := []scenario{
		{"filtered count (sequential)", func() string {
			n := tbl.Filtered(even).Size()
			return fmt.Sprintf("%s matched", humanize.Comma(int64(n)))
		}},
		{"filtered count (parallel)", func() string {
			n := tbl.Parallel().Count(even)
			return fmt.Sprintf("%s matched", humanize.Comma(int64(n)))
		}},
		{"sorted traversal", func() string {
			last := 0
			tbl.Sorted().ForEach(func(v int) { last = v })
			return fmt.Sprintf("max %s", humanize.Comma(int64(last)))
		}},
		{"distinct size", func() string {
			n := tbl.Distinct().Size()
			return fmt.Sprintf("%s unique", humanize.Comma(int64(n)))
		}},
		{"reduce max (parallel)", func() string {
			m, _ := tbl.Parallel().Reduce(func(a, b int) int {
				if a > b {
					return a
				}
				return b
			})
			return fmt.Sprintf("max %s", humanize.Comma(int64(m)))
		}},
		{"shared mixed load", func() string {
			return runSharedLoad(cfg.count)
		}},
		{"atomic bulk updates", func() string {
			return runAtomicLoad(cfg.count)
		}},
		{"snapshot round-trip", func() string {
			return runRoundTrip(cfg, tbl)
		}},
	}

	if cfg.workers > 0 {
		fmt.Printf("workers: %d\n", cfg.workers)
	}
	fmt.Println()

	for _, s := range scenarios {
		start := time.Now()
		result := s.run()
		elapsed := time.Since(start)
		fmt.Printf("  %-30s %12v   %s\n", s.name, elapsed.Round(time.Microsecond), result)
	}
}

// runSharedLoad runs writers against a shared view while readers sum sizes,
// the mixed workload the shared tier exists for.
func runSharedLoad(n int) string {
	s := fastcol.NewSet[int]().Shared()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n/10; i++ {
			s.Add(i)
			if i%3 == 0 {
				s.Remove(i - 1)
			}
		}
	}()
	reads := 0
	for {
		select {
		case <-done:
			return fmt.Sprintf("%s reads, final size %s",
				humanize.Comma(int64(reads)), humanize.Comma(int64(s.Size())))
		default:
			s.Size()
			reads++
		}
	}
}

// runAtomicLoad commits bulk generation swaps while a reader verifies it
// only ever observes complete generations.
func runAtomicLoad(n int) string {
	a := fastcol.NewTable[int]().Atomic()
	gens := n / 10000
	if gens < 10 {
		gens = 10
	}
	for gen := 0; gen < gens; gen++ {
		a.Update(func(c fastcol.Collection[int]) {
			c.Clear()
			for i := 0; i < 100; i++ {
				c.Add(gen)
			}
		})
		if a.Size() != 100 {
			return "torn state observed"
		}
	}
	return fmt.Sprintf("%s generations committed", humanize.Comma(int64(gens)))
}

// runRoundTrip captures the table into the configured store and restores
// it into a fresh table, reporting the blob size.
func runRoundTrip(cfg config, tbl *fastcol.Table[int]) string {
	ctx := context.Background()
	st, cleanup, err := createStore(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("store error: %v", err)
	}
	defer cleanup()

	keeper := snapshot.NewKeeper(st, snapshot.JSONCodec[int](),
		snapshot.WithCompression[int](cfg.compress),
		snapshot.WithKeeperLogger[int](newLogger(cfg.verbose)))

	version, err := keeper.Capture(ctx, tbl)
	if err != nil {
		return fmt.Sprintf("capture error: %v", err)
	}
	snap, err := st.Get(ctx, version)
	if err != nil {
		return fmt.Sprintf("get error: %v", err)
	}

	restored := fastcol.NewTable[int]()
	count, err := keeper.Restore(ctx, version, restored)
	if err != nil {
		return fmt.Sprintf("restore error: %v", err)
	}
	if count != tbl.Size() {
		return fmt.Sprintf("restored %d of %d elements", count, tbl.Size())
	}
	return fmt.Sprintf("v%d, %s blob, %s elements",
		version, humanize.Bytes(uint64(len(snap.Data))), humanize.Comma(int64(count)))
}

func runSnapshot(cfg config) {
	ctx := context.Background()
	st, cleanup, err := createStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating snapshot store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	tbl := sampleTable(cfg.count)
	keeper := snapshot.NewKeeper(st, snapshot.JSONCodec[int](),
		snapshot.WithCompression[int](cfg.compress),
		snapshot.WithKeeperLogger[int](newLogger(cfg.verbose)))

	version, err := keeper.Capture(ctx, tbl)
	if err != nil {
		fmt.Printf("Error capturing snapshot: %v\n", err)
		os.Exit(1)
	}

	snap, err := st.Get(ctx, version)
	if err != nil {
		fmt.Printf("Error reading back snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Captured version %d: %s elements, %s\n",
		version, humanize.Comma(int64(snap.Count)), humanize.Bytes(uint64(len(snap.Data))))
	if cfg.store == "memory" {
		fmt.Println("Note: the memory store does not outlive this process; use -store=bolt or -store=s3 to restore later.")
	}
}

func runRestore(cfg config) {
	if cfg.version == 0 {
		fmt.Println("A version must be specified with -version")
		os.Exit(1)
	}

	ctx := context.Background()
	st, cleanup, err := createStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating snapshot store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	keeper := snapshot.NewKeeper(st, snapshot.JSONCodec[int](),
		snapshot.WithKeeperLogger[int](newLogger(cfg.verbose)))

	restored := fastcol.NewTable[int]()
	count, err := keeper.Restore(ctx, cfg.version, restored)
	if err != nil {
		fmt.Printf("Error restoring version %d: %v\n", cfg.version, err)
		os.Exit(1)
	}

	fmt.Printf("Restored version %d: %s elements\n", cfg.version, humanize.Comma(int64(count)))
	if cfg.verbose && !restored.IsEmpty() {
		ordered := restored.Sorted().Elements()
		fmt.Printf("  min=%d max=%d distinct=%s\n",
			ordered[0], ordered[len(ordered)-1],
			humanize.Comma(int64(restored.Distinct().Size())))
	}
}

func runVersions(cfg config) {
	ctx := context.Background()
	st, cleanup, err := createStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating snapshot store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	versions, err := st.Versions(ctx)
	if err != nil {
		fmt.Printf("Error listing versions: %v\n", err)
		os.Exit(1)
	}
	if len(versions) == 0 {
		fmt.Println("No snapshots stored")
		return
	}

	fmt.Printf("Versions: %v\n", versions)
	for _, v := range versions {
		snap, err := st.Get(ctx, v)
		if err != nil {
			fmt.Printf("  v%d: error: %v\n", v, err)
			continue
		}
		fmt.Printf("  v%d: %s elements, %s, taken %s\n",
			v, humanize.Comma(int64(snap.Count)),
			humanize.Bytes(uint64(len(snap.Data))),
			snap.TakenAt.Format(time.RFC3339))
	}
}

func runDiff(cfg config) {
	if cfg.version == 0 || cfg.target == 0 {
		fmt.Println("Both -version and -target must be specified for diff")
		os.Exit(1)
	}

	ctx := context.Background()
	st, cleanup, err := createStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating snapshot store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	keeper := snapshot.NewKeeper(st, snapshot.JSONCodec[int](),
		snapshot.WithKeeperLogger[int](newLogger(cfg.verbose)))

	removed, added, err := keeper.Diff(ctx, cfg.version, cfg.target)
	if err != nil {
		fmt.Printf("Error diffing versions: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Diff v%d -> v%d: %s added, %s removed\n",
		cfg.version, cfg.target,
		humanize.Comma(int64(len(added))), humanize.Comma(int64(len(removed))))
	if cfg.verbose {
		for _, p := range added {
			fmt.Printf("  + %s\n", p)
		}
		for _, p := range removed {
			fmt.Printf("  - %s\n", p)
		}
	}
}
