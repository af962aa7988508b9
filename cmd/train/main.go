// train fits the breast cancer classifier and writes the model artifact.
// Without -data it trains on a built-in sample of the Wisconsin Diagnostic layout.
//
//	go run ./cmd/train
//	go run ./cmd/train -data data/breast_cancer.csv -out models/model.json
//	go run ./cmd/train -data data/breast_cancer.csv -push -store-addr localhost:6379
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/bcpredict/internal/db/redis"
	"github.com/kailas-cloud/bcpredict/internal/domain/artifact"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
	"github.com/kailas-cloud/bcpredict/internal/forest"
	logpkg "github.com/kailas-cloud/bcpredict/internal/logger"
	artifactrepo "github.com/kailas-cloud/bcpredict/internal/repository/artifact"
)

type options struct {
	data      string
	label     string
	out       string
	modelName string
	testFrac  float64
	params    forest.Params

	push          bool
	storeAddr     string
	storePassword string
	storeKey      string
}

func main() {
	opts := parseFlags()

	logger, err := logpkg.NewLogger("local", "info", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
}

func parseFlags() options {
	def := forest.DefaultParams()
	var o options
	var seed uint64

	flag.StringVar(&o.data, "data", "", "training CSV with a header row (default: built-in dataset)")
	flag.StringVar(&o.label, "label", "target", "label column name")
	flag.StringVar(&o.out, "out", "models/model.json", "artifact output path")
	flag.StringVar(&o.modelName, "model-name", artifact.DefaultModelName, "model name stored in the artifact")
	flag.Float64Var(&o.testFrac, "test-size", 0.2, "held-out fraction for evaluation")
	flag.IntVar(&o.params.NTrees, "trees", def.NTrees, "number of trees")
	flag.IntVar(&o.params.MaxDepth, "max-depth", def.MaxDepth, "maximum tree depth (0 = unlimited)")
	flag.IntVar(&o.params.MinSamplesSplit, "min-samples-split", def.MinSamplesSplit, "minimum samples to split a node")
	flag.IntVar(&o.params.MinSamplesLeaf, "min-samples-leaf", def.MinSamplesLeaf, "minimum samples per leaf")
	flag.IntVar(&o.params.MaxFeatures, "max-features", def.MaxFeatures, "features tried per split (0 = sqrt)")
	flag.Uint64Var(&seed, "seed", def.Seed, "random seed for the split and the forest")

	flag.BoolVar(&o.push, "push", false, "also publish the artifact to the key-value store")
	flag.StringVar(&o.storeAddr, "store-addr", env("STORE_ADDR", "localhost:6379"), "Redis/Valkey address")
	flag.StringVar(&o.storePassword, "store-password", env("STORE_PASSWORD", ""), "Redis/Valkey password")
	flag.StringVar(&o.storeKey, "store-key", "bcpredict:model", "key the artifact is published under")
	flag.Parse()

	o.params.Seed = seed
	return o
}

func run(ctx context.Context, o options, logger *zap.Logger) error {
	ds, source, err := loadDataset(o)
	if err != nil {
		return err
	}
	names, err := feature.NewNames(ds.features)
	if err != nil {
		return fmt.Errorf("feature names: %w", err)
	}
	logger.Info("Dataset loaded",
		zap.String("source", source),
		zap.Int("rows", len(ds.x)),
		zap.Int("features", names.Len()),
	)

	trainIdx, testIdx, err := forest.StratifiedSplit(ds.y, o.testFrac, o.params.Seed)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	xTrain, yTrain := ds.subset(trainIdx)
	xTest, yTest := ds.subset(testIdx)

	start := time.Now()
	model, err := forest.Train(xTrain, yTrain, o.params)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	logger.Info("Forest trained",
		zap.Int("trees", len(model.Trees)),
		zap.Int("train_rows", len(xTrain)),
		zap.Duration("took", time.Since(start)),
	)

	report, err := forest.Evaluate(model, xTest, yTest)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	fmt.Println(report.String())

	data, err := artifactrepo.Encode(o.modelName, names, model)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	// Decoding proves the file is loadable by the server before it is written.
	if _, err := artifactrepo.Decode(data, o.modelName); err != nil {
		return fmt.Errorf("verify artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(o.out, data, 0o600); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	logger.Info("Saved model", zap.String("path", o.out), zap.Int("bytes", len(data)))

	if o.push {
		return publish(ctx, o, data, logger)
	}
	return nil
}

func loadDataset(o options) (*dataset, string, error) {
	if o.data == "" {
		return builtinDataset(o.params.Seed), "builtin", nil
	}
	ds, err := readCSV(o.data, o.label)
	return ds, o.data, err
}

func publish(ctx context.Context, o options, data []byte, logger *zap.Logger) error {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      []string{o.storeAddr},
		Password:   o.storePassword,
		Standalone: true,
		ClientName: "bcpredict-train",
	})
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}
	if err := artifactrepo.NewStoreSource(store, o.storeKey).Publish(ctx, data); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	logger.Info("Published model", zap.String("key", o.storeKey), zap.String("addr", o.storeAddr))
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
