package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinetag/internal/tag"
	"cinetag/internal/tagsync"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <tag>",
		Short:       "Show the shots and objects stored in a cinematic tag",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tag.Load(args[0])
			if err != nil {
				return err
			}
			d := tagsync.Describe(t)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tag:    %s\n", args[0])
			fmt.Fprintf(out, "Group:  %s\n", d.Group)
			if d.Name != "" {
				fmt.Fprintf(out, "Scene:  %s\n", d.Name)
			}
			if d.Anchor != nil {
				fmt.Fprintf(out, "Anchor: %.4f %.4f %.4f\n", d.Anchor[0], d.Anchor[1], d.Anchor[2])
			}

			shotRows := make([][]string, 0, len(d.Shots))
			for _, s := range d.Shots {
				shotRows = append(shotRows, []string{
					strconv.Itoa(s.Index),
					strconv.FormatInt(s.FrameCount, 10),
					strconv.Itoa(s.Frames),
				})
			}
			fmt.Fprintf(out, "\nShots (%d)\n", len(d.Shots))
			if len(shotRows) > 0 {
				fmt.Fprintln(out, renderTable(out, []column{num("#"), num("Frame Count"), num("Frames")}, shotRows))
			}

			objectRows := make([][]string, 0, len(d.Objects))
			for i, o := range d.Objects {
				objectRows = append(objectRows, []string{
					strconv.Itoa(i),
					o.Name,
					dash(o.Identifier),
					dash(o.AnimationGraph),
					dash(o.ObjectType),
					dash(o.ShotsActive),
				})
			}
			fmt.Fprintf(out, "\nObjects (%d)\n", len(d.Objects))
			if len(objectRows) > 0 {
				fmt.Fprintln(out, renderTable(out, []column{num("#"), col("Name"), col("Identifier"), col("Animation Graph"), col("Object Type"), col("Shots Active")}, objectRows))
			}
			return nil
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
