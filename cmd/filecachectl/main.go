// Command filecachectl is an operator tool for inspecting and maintaining a
// file-cache root directory out of band from any running process.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	filecache "github.com/nickmsk9/file-cache"
	"github.com/nickmsk9/file-cache/internal/metaenc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "get":
		err = runGet(os.Args[2:])
	case "set":
		err = runSet(os.Args[2:])
	case "delete":
		err = runDelete(os.Args[2:])
	case "gc":
		err = runGC(os.Args[2:])
	case "vacuum":
		err = runVacuum(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: filecachectl <get|set|delete|gc|vacuum|inspect> [flags]")
}

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	dir := fs.String("dir", "", "cache root directory")
	key := fs.String("key", "", "cache key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *key == "" {
		return errors.New("get requires -dir and -key")
	}

	c, err := filecache.New(*dir)
	if err != nil {
		return err
	}
	v, ok := c.Get([]byte(*key))
	if !ok {
		fmt.Println("(miss)")
		return nil
	}
	fmt.Printf("%+v\n", v)
	return nil
}

func runSet(args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	dir := fs.String("dir", "", "cache root directory")
	key := fs.String("key", "", "cache key")
	value := fs.String("value", "", "string value to store")
	ttl := fs.Duration("ttl", 0, "time to live (0 uses the cache default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *key == "" {
		return errors.New("set requires -dir and -key")
	}

	c, err := filecache.New(*dir)
	if err != nil {
		return err
	}
	return c.Set([]byte(*key), filecache.Str(*value), *ttl)
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dir := fs.String("dir", "", "cache root directory")
	key := fs.String("key", "", "cache key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *key == "" {
		return errors.New("delete requires -dir and -key")
	}

	c, err := filecache.New(*dir)
	if err != nil {
		return err
	}
	return c.Delete([]byte(*key))
}

func runGC(args []string) error {
	fs := flag.NewFlagSet("gc", flag.ExitOnError)
	dir := fs.String("dir", "", "cache root directory")
	limit := fs.Int("limit", 0, "maximum entries to remove (0 means unbounded)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("gc requires -dir")
	}

	c, err := filecache.New(*dir)
	if err != nil {
		return err
	}
	removed, err := c.GC(*limit)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d entries\n", removed)
	return nil
}

// runVacuum removes orphaned .bin files: external payload files left behind
// by a crash between writing the bin and publishing (or failing to publish)
// its meta, and stale .bin siblings of entries that were later rewritten
// inline. GC only ever acts on meta files it can read; vacuum is the
// complementary pass that looks the other direction.
func runVacuum(args []string) error {
	fs := flag.NewFlagSet("vacuum", flag.ExitOnError)
	dir := fs.String("dir", "", "cache root directory")
	dryRun := fs.Bool("dry-run", false, "report orphans without deleting them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("vacuum requires -dir")
	}

	removed, err := vacuumOrphans(*dir, *dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("%d orphaned payload files\n", removed)
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	path := fs.String("meta", "", "path to a .php or .meta.php file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("inspect requires -meta")
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	body, err := metaenc.StripHeader(raw)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}
