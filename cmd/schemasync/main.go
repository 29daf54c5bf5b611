package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/consentbase/schemasync/internal/infrastructure/database"
	"github.com/consentbase/schemasync/pkg/dialect"
	"github.com/consentbase/schemasync/pkg/diff"
	"github.com/consentbase/schemasync/pkg/introspect"
	"github.com/consentbase/schemasync/pkg/migrate"
	"github.com/consentbase/schemasync/pkg/plan"
	"github.com/consentbase/schemasync/pkg/schema"
)

func main() {
	schemaDir := flag.String("schema", "schema", "directory containing schema fragment YAML files")
	dialectFlag := flag.String("dialect", "", "target dialect (overrides DB_DIALECT)")
	apply := flag.Bool("apply", false, "execute the plan instead of printing it")
	envFile := flag.String("env", ".env", "environment file")
	flag.Parse()

	// Missing .env is fine; the environment may already be populated
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to load %s: %v", *envFile, err)
	}

	cfg, err := database.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	if *dialectFlag != "" {
		d, err := dialect.ParseDialect(*dialectFlag)
		if err != nil {
			log.Fatalf("Invalid dialect: %v", err)
		}
		cfg.Dialect = d
	}

	fragments, err := loadFragments(*schemaDir)
	if err != nil {
		log.Fatalf("Failed to load schema fragments: %v", err)
	}
	log.Printf("📦 Loaded %d schema fragment(s) from %s", len(fragments), *schemaDir)

	canonical := schema.Assemble(fragments)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()
	log.Println("✅ Database connection established")

	ctx := context.Background()

	provider, err := introspect.NewProvider(db, cfg.Dialect)
	if err != nil {
		log.Fatalf("Failed to create introspection provider: %v", err)
	}
	live, err := provider.Tables(ctx)
	if err != nil {
		log.Fatalf("Failed to introspect database: %v", err)
	}

	result := diff.Diff(canonical, live, cfg.Dialect)
	if result.Empty() {
		log.Println("✅ Database is up to date")
		return
	}

	p, err := plan.Build(result, cfg.Dialect)
	if err != nil {
		log.Fatalf("Failed to build migration plan: %v", err)
	}

	executor, err := migrate.NewExecutor(db, cfg.Dialect)
	if err != nil {
		log.Fatalf("Failed to create executor: %v", err)
	}

	if !*apply {
		sqlText, err := executor.Compile(p.Operations())
		if err != nil {
			log.Fatalf("Failed to compile migration plan: %v", err)
		}
		fmt.Println(sqlText)
		return
	}

	if err := executor.Run(ctx, p.Operations()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Migration complete")
}
