package cli

import (
	"fmt"

	"github.com/ddvk/layerframes/frames"
	"github.com/spf13/cobra"
)

func init() {
	list := &cobra.Command{
		Use:   "layers",
		Short: "List the layers of the document",
		RunE:  runLayers,
	}
	RootCmd.AddCommand(list)

	add := &cobra.Command{
		Use:   "add-layer",
		Short: "Add a layer, optionally inside a group",
		RunE:  runAddLayer,
	}
	add.Flags().StringP("name", "n", "", "Layer name (required)")
	add.Flags().StringP("group", "g", "", "Group name, created when missing")
	add.MarkFlagRequired("name")
	RootCmd.AddCommand(add)
}

func runLayers(cmd *cobra.Command, args []string) error {
	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		out := cmd.OutOrStdout()
		for _, l := range doc.Tree.Layers() {
			active := " "
			if l.Id == doc.ActiveLayer {
				active = "*"
			}
			group := ""
			if g := l.ParentGroup(); g != nil && g != doc.Tree.Root {
				group = g.Name + "/"
			}
			fmt.Fprintf(out, "%s %s%s keys:%d\n", active, group, l.Name, l.Frames().Len())
		}
		return false, nil
	})
}

func runAddLayer(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	groupName, _ := cmd.Flags().GetString("group")

	return withDocument(cmd.Context(), true, func(doc *frames.Document) (bool, error) {
		var group *frames.LayerGroup
		if groupName != "" {
			var ok bool
			if group, ok = doc.Tree.FindGroup(groupName); !ok {
				group = doc.Tree.AddGroup(nil, groupName)
			}
		}
		l := doc.AddLayer(group, name)
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", l)
		return true, nil
	})
}
