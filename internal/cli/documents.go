package cli

import (
	"fmt"
	"os"

	"github.com/ddvk/layerframes/frames"
	"github.com/ddvk/layerframes/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	docs := &cobra.Command{
		Use:   "docs",
		Short: "List stored documents with their revision",
		RunE:  runDocs,
	}
	RootCmd.AddCommand(docs)

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete the document",
		RunE:  runDelete,
	}
	RootCmd.AddCommand(del)

	export := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the document to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	RootCmd.AddCommand(export)

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the document with the content of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	RootCmd.AddCommand(imp)
}

func runDocs(cmd *cobra.Command, args []string) error {
	s, err := store.Open(getDBPath(), store.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range names {
		revision, err := s.Revision(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s rev:%d\n", name, revision)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := store.Open(getDBPath(), store.Options{})
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Delete(docName)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		f, err := os.Create(args[0])
		if err != nil {
			return false, err
		}
		if err = frames.WriteDocument(f, doc); err != nil {
			f.Close()
			return false, err
		}
		log.Debugf("exported %s to %s", docName, args[0])
		return false, f.Close()
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	imported, err := frames.ReadDocument(f)
	if err != nil {
		return err
	}
	return withDocument(cmd.Context(), true, func(doc *frames.Document) (bool, error) {
		*doc = *imported
		doc.Name = docName
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", doc)
		return true, nil
	})
}
