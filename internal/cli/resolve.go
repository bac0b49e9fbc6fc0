package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/logicossoftware/go-uasset"
	"github.com/spf13/cobra"
)

type objectReport struct {
	Index    int32          `json:"index"`
	Resolved bool           `json:"resolved"`
	Package  string         `json:"package,omitempty"`
	Class    string         `json:"class,omitempty"`
	Name     string         `json:"name,omitempty"`
	Type     string         `json:"type,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "resolve <path> <index>",
		Short: "Load the object a package index refers to",
		Long:  "Resolves a package index (negative for imports, positive for exports) of the package at <path>, loading referenced packages from the root.",
		Args:  cobra.ExactArgs(2),
		RunE:  runResolve,
	}

	RootCmd.AddCommand(cmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	n, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("index %q: %w", args[1], err)
	}
	p, err := openProvider()
	if err != nil {
		return err
	}
	pkg, err := p.LoadPackage(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	r, err := resolveObject(pkg, uasset.PackageIndex(n))
	if err != nil {
		return err
	}
	if formatFlag == "json" {
		return printJSON(cmd.OutOrStdout(), r)
	}
	return printObjectText(cmd.OutOrStdout(), r)
}

func resolveObject(pkg *uasset.Package, idx uasset.PackageIndex) (objectReport, error) {
	r := objectReport{Index: int32(idx)}
	obj, err := pkg.Archive().LoadObject(idx)
	if err != nil {
		return r, err
	}
	if obj == nil {
		return r, nil
	}
	r.Resolved = true
	if e := obj.Export(); e != nil {
		r.Class = e.ClassName()
		r.Name = e.ObjectName.Text()
		if e.Package() != nil {
			r.Package = e.Package().Name
		}
	}
	switch o := obj.(type) {
	case *uasset.Texture2D:
		r.Type = "texture"
		r.Details = map[string]any{"size_x": o.SizeX, "size_y": o.SizeY, "pixel_format": o.PixelFormat}
		if o.Mip != nil {
			r.Details["mip_bytes"] = len(o.Mip.Data)
		}
	case *uasset.MaterialInstance:
		r.Type = "material_instance"
		r.Details = map[string]any{"vector_parameters": len(o.VectorParameters), "scalar_parameters": len(o.ScalarParameters)}
		if parent := o.Parent; parent != nil && parent.Export() != nil {
			r.Details["parent"] = parent.Export().ObjectName.Text()
		}
	case *uasset.MtxOfferData:
		r.Type = "offer"
		r.Details = map[string]any{"offer_id": o.OfferID, "details_image": int32(o.DetailsImage), "tile_image": int32(o.TileImage)}
	case *uasset.RawObject:
		r.Type = "raw"
		r.Details = map[string]any{"bytes": len(o.Data)}
	default:
		r.Type = fmt.Sprintf("%T", obj)
	}
	return r, nil
}

func printObjectText(w io.Writer, r objectReport) error {
	if !r.Resolved {
		_, err := fmt.Fprintf(w, "%s: unresolved\n", uasset.PackageIndex(r.Index))
		return err
	}
	fmt.Fprintf(w, "%s: %s %s (package %s, %s)\n", uasset.PackageIndex(r.Index), r.Class, r.Name, r.Package, r.Type)
	for _, k := range slices.Sorted(maps.Keys(r.Details)) {
		v := r.Details[k]
		if n, ok := v.(int); ok && strings.HasSuffix(k, "bytes") {
			v = humanize.IBytes(uint64(n))
		}
		fmt.Fprintf(w, "  %s: %v\n", k, v)
	}
	return nil
}
