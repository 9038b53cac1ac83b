// Package cli implements the layerframes commands.
package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ddvk/layerframes/frames"
	"github.com/ddvk/layerframes/internal/logging"
	"github.com/ddvk/layerframes/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	docName string
	verbose bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "layerframes",
	Short:         "Edit the frame maps of drawing layers",
	Long:          "Keyframe timing for cel-style drawing layers, stored in a bbolt file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(cmd.ErrOrStderr(), verbose)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $LAYERFRAMES_DB or ~/.layerframes/frames.db)")
	RootCmd.PersistentFlags().StringVar(&docName, "doc", "default", "Document name")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("LAYERFRAMES_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".layerframes", "frames.db")
}

// withDocument loads the current document, runs fn and saves the document
// when fn reports a change. A missing document is created when create is set.
func withDocument(ctx context.Context, create bool, fn func(doc *frames.Document) (bool, error)) error {
	s, err := store.Open(getDBPath(), store.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Load(ctx, docName)
	if errors.Is(err, store.ErrNotFound) && create {
		log.Debugf("creating document %s", docName)
		doc, err = frames.NewDocument(docName), nil
	}
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}
	revision, err := s.Save(ctx, docName, doc)
	if err != nil {
		return err
	}
	log.Debugf("%s saved, revision %d", docName, revision)
	return nil
}

func findLayer(doc *frames.Document, name string) (*frames.Layer, error) {
	if name == "" {
		if l, ok := doc.GetActiveLayer(); ok {
			return l, nil
		}
		return nil, errors.New("no active layer, use --layer")
	}
	l, ok := doc.Tree.FindLayer(name)
	if !ok {
		return nil, errors.New("layer not found: " + name)
	}
	return l, nil
}
