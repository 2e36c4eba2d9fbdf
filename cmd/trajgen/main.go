package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("ignoring .env: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command, args := os.Args[1], os.Args[2:]
	var err error
	switch command {
	case "generate":
		err = runGenerate(args)
	case "convert":
		err = runConvert(args)
	case "extract":
		err = runExtract(args)
	case "inspect":
		err = runInspect(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Fatalf("trajgen %s: %v", command, err)
	}
}

func printUsage() {
	fmt.Println(`trajgen - test-scenario trajectory generator

Usage: trajgen <command> [options]

Commands:
  generate   Build the trajectories of a scenario config and write them out
  convert    Turn trajectories of an OpenSCENARIO file into a JSON test case
  extract    Cut a road subset out of an OpenDRIVE map
  inspect    Summarise a vertex list file
  help       Show this help message

Environment (also read from .env):
  TRAJGEN_CONFIG    default for generate -config
  TRAJGEN_OUT_DIR   default for generate -out
  TRAJGEN_STEP      default for generate -step

Examples:
  trajgen generate -config roundabout.json -out out -json -png -xosc
  trajgen convert -in scenario.xosc -out case.json -vehicle VT1_Trajectory=obu-0005 -static Target=obu-0006
  trajgen extract -in map.xodr -out subset.xodr -roads 161,162,163
  trajgen inspect -in out/VUT.txt`)
}

func envOr(key, dflt string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return dflt
}

func envFloat(key string) float64 {
	v := envOr(key, "")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, v, err)
		return 0
	}
	return f
}

// pairs collects repeated name=value flags in order.
type pairs []pair

type pair struct{ Name, Value string }

func (p *pairs) String() string {
	parts := make([]string, len(*p))
	for i, kv := range *p {
		parts[i] = kv.Name + "=" + kv.Value
	}
	return strings.Join(parts, ",")
}

func (p *pairs) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return fmt.Errorf("expected name=id, got %q", s)
	}
	*p = append(*p, pair{name, value})
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
