// Command shardgraph is a small line-oriented REPL over a shardgraph
// Database, in the spirit of torua's cmd/node and cmd/coordinator mains
// but adapted to shardgraph's in-process, no-transport scope: there is
// no HTTP server and no cluster to join, only a Database opened in this
// process and driven from stdin.
//
// Configuration:
//   - SHARDGRAPH_SHARDS: shard count (default: runtime.NumCPU())
//
// Commands (one per line, space-separated, trailing JSON object
// optional where noted):
//
//	nodetype <name>                         declare a node type
//	reltype <name>                          declare a relationship type
//	nodeprop <type> <prop> <kind>           declare a node property (kind: int64|double|string|bool|date)
//	addnode <type> <key> [{json props}]     create a node
//	getnode <id>                            print a node's record
//	delnode <id>                            remove a node and its relationships
//	addrel <type> <id1> <id2> [{json props}] create a relationship
//	getrel <id>                             print a relationship's record
//	delrel <id>                             remove a relationship
//	neighbors <id> <out|in|both>            print one-hop neighbor ids
//	khop <id> <hops> <out|in|both>          print ids reachable within hops
//	degree <id> <out|in|both>               print adjacency degree
//	health                                   print shard liveness
//	quit                                     exit
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/dreamware/shardgraph"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logFatal("invalid %s=%q: %v", key, v, err)
	}
	return n
}

func main() {
	numShards := getenvInt("SHARDGRAPH_SHARDS", runtime.NumCPU())

	db := shardgraph.Open(numShards)
	defer db.Close()
	log.Printf("shardgraph: opened database with %d shards", db.NumShards())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repl(ctx, db, os.Stdin, os.Stdout)
}

func repl(ctx context.Context, db *shardgraph.Database, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	nodeTypes := map[string]uint16{}
	relTypes := map[string]uint16{}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		cmd := fields[0]
		rest := ""
		if len(fields) > 1 {
			rest = fields[1]
		}

		if cmd == "quit" || cmd == "exit" {
			return
		}

		if err := dispatch(ctx, db, out, nodeTypes, relTypes, cmd, rest); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, db *shardgraph.Database, out *os.File, nodeTypes, relTypes map[string]uint16, cmd, rest string) error {
	args := strings.Fields(rest)

	switch cmd {
	case "nodetype":
		id, err := db.NodeTypeInsert(ctx, args[0])
		if err != nil {
			return err
		}
		nodeTypes[args[0]] = id
		fmt.Fprintf(out, "node type %q = %d\n", args[0], id)

	case "reltype":
		id, err := db.RelationshipTypeInsert(ctx, args[0])
		if err != nil {
			return err
		}
		relTypes[args[0]] = id
		fmt.Fprintf(out, "relationship type %q = %d\n", args[0], id)

	case "nodeprop":
		typeName, prop, kindName := args[0], args[1], args[2]
		kind, err := parseKind(kindName)
		if err != nil {
			return err
		}
		return db.NodePropertyTypeAdd(ctx, nodeTypes[typeName], typeName, prop, kind)

	case "addnode":
		typeName, key := args[0], args[1]
		props, err := parseTrailingJSON(rest, 2)
		if err != nil {
			return err
		}
		id, err := db.NodeAdd(ctx, nodeTypes[typeName], typeName, key, props)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "node %d\n", id)

	case "getnode":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		node, ok, err := db.NodeGet(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "not found")
			return nil
		}
		fmt.Fprintf(out, "%+v\n", node)

	case "delnode":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		return db.NodeRemove(ctx, id)

	case "addrel":
		typeName := args[0]
		id1, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		id2, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return err
		}
		props, err := parseTrailingJSON(rest, 3)
		if err != nil {
			return err
		}
		relID, err := db.RelationshipAdd(ctx, relTypes[typeName], id1, id2, props)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "relationship %d\n", relID)

	case "getrel":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		rel, ok, err := db.RelationshipGet(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "not found")
			return nil
		}
		fmt.Fprintf(out, "%+v\n", rel)

	case "delrel":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		return db.RelationshipRemove(ctx, id)

	case "neighbors":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		dir, err := parseDirection(args[1])
		if err != nil {
			return err
		}
		ids, err := db.NodeGetNeighborIds(ctx, id, dir, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ids)

	case "khop":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		hops, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		dir, err := parseDirection(args[2])
		if err != nil {
			return err
		}
		ids, err := db.KHopIds(ctx, id, hops, dir, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ids)

	case "degree":
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		dir, err := parseDirection(args[1])
		if err != nil {
			return err
		}
		degree, err := db.NodeGetDegree(ctx, id, dir, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, degree)

	case "health":
		for id, h := range db.ShardHealth() {
			fmt.Fprintf(out, "shard %d: %s\n", id, h.Status)
		}

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func parseKind(name string) (shardgraph.PropertyKind, error) {
	switch name {
	case "int64":
		return shardgraph.KindInt64, nil
	case "double":
		return shardgraph.KindDouble, nil
	case "string":
		return shardgraph.KindString, nil
	case "bool":
		return shardgraph.KindBool, nil
	case "date":
		return shardgraph.KindDate, nil
	default:
		return 0, fmt.Errorf("unknown property kind %q", name)
	}
}

func parseDirection(name string) (shardgraph.Direction, error) {
	switch name {
	case "out":
		return shardgraph.Out, nil
	case "in":
		return shardgraph.In, nil
	case "both":
		return shardgraph.Both, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", name)
	}
}

// parseTrailingJSON splits rest (already split on spaces for positional
// args) at the nth field and decodes whatever follows as a JSON object,
// returning nil if there's nothing left.
func parseTrailingJSON(rest string, skipFields int) (map[string]any, error) {
	fields := strings.Fields(rest)
	if len(fields) <= skipFields {
		return nil, nil
	}
	idx := strings.Index(rest, fields[skipFields])
	dec := json.NewDecoder(strings.NewReader(rest[idx:]))
	dec.UseNumber()
	var props map[string]any
	if err := dec.Decode(&props); err != nil {
		return nil, fmt.Errorf("invalid property JSON: %w", err)
	}
	return props, nil
}
