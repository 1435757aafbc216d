package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cinetag/internal/cinematic"
	"cinetag/internal/optics"
	"cinetag/internal/snapshot"
)

func newOpticsCommand() *cobra.Command {
	var (
		focalLength float64
		aperture    float64
		focus       float64
		coc         float64
		sensor      float64
		clipStart   float64
		clipEnd     float64
	)

	cmd := &cobra.Command{
		Use:         "optics",
		Short:       "Evaluate depth of field for a lens setting",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			hyperfocal, err := optics.Hyperfocal(focalLength, aperture, coc)
			if err != nil {
				return err
			}
			near, far, err := optics.FocalDepths(focus, aperture, coc, focalLength)
			if err != nil {
				return err
			}
			nearBlur, err := optics.BlurAmount(focalLength, focus, aperture, clipStart, sensor)
			if err != nil {
				return err
			}
			farBlur, err := optics.BlurAmount(focalLength, focus, aperture, clipEnd, sensor)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Hyperfocal distance", formatNum(hyperfocal)},
				{"Near focal depth", formatNum(near)},
				{"Far focal depth", formatNum(far)},
				{fmt.Sprintf("Blur at clip start (%s)", formatNum(clipStart)), formatNum(nearBlur)},
				{fmt.Sprintf("Blur at clip end (%s)", formatNum(clipEnd)), formatNum(farBlur)},
				{"Engine focal length (legacy)", formatNum(focalLength * cinematic.SchemaLegacy.FocalLengthScale())},
				{"Engine focal length (split)", formatNum(focalLength * cinematic.SchemaSplit.FocalLengthScale())},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []column{col("Quantity"), num("Value")}, rows))
			return nil
		},
	}

	cmd.Flags().Float64Var(&focalLength, "focal-length", snapshot.DefaultLens, "Lens focal length in millimetres")
	cmd.Flags().Float64Var(&aperture, "aperture", snapshot.DefaultFStop, "Aperture f-stop")
	cmd.Flags().Float64Var(&focus, "focus", snapshot.DefaultFocusDistance, "Focus distance")
	cmd.Flags().Float64Var(&coc, "coc", optics.DefaultCoC, "Circle of confusion")
	cmd.Flags().Float64Var(&sensor, "sensor-width", snapshot.DefaultSensorWidth, "Sensor width in millimetres")
	cmd.Flags().Float64Var(&clipStart, "clip-start", snapshot.DefaultClipStart, "Near clip distance")
	cmd.Flags().Float64Var(&clipEnd, "clip-end", snapshot.DefaultClipEnd, "Far clip distance")
	return cmd
}

func formatNum(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
