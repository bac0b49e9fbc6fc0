package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/logicossoftware/go-uasset"
	"github.com/spf13/cobra"
)

type packageReport struct {
	Name           string         `json:"name"`
	FolderName     string         `json:"folder_name,omitempty"`
	ByteOrder      string         `json:"byte_order"`
	LicenseeVer    int32          `json:"licensee_version"`
	PackageFlags   uint32         `json:"package_flags"`
	HeaderSize     int            `json:"header_size"`
	ExportDataSize int            `json:"export_data_size"`
	Names          []string       `json:"names"`
	Imports        []importReport `json:"imports"`
	Exports        []exportReport `json:"exports"`
}

type importReport struct {
	Index        int32  `json:"index"`
	ClassPackage string `json:"class_package"`
	ClassName    string `json:"class_name"`
	ObjectName   string `json:"object_name"`
	Outer        int32  `json:"outer"`
	PackagePath  string `json:"package_path,omitempty"`
}

type exportReport struct {
	Index      int32  `json:"index"`
	ClassName  string `json:"class_name"`
	ObjectName string `json:"object_name"`
	Outer      int32  `json:"outer"`
	SerialSize int64  `json:"serial_size"`
	Offset     int64  `json:"serial_offset"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show the summary, name map, imports and exports of a package",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	RootCmd.AddCommand(cmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	p, err := openProvider()
	if err != nil {
		return err
	}
	pkg, err := p.LoadPackage(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	r := inspectPackage(pkg)
	if formatFlag == "json" {
		return printJSON(cmd.OutOrStdout(), r)
	}
	return printInspectText(cmd.OutOrStdout(), r)
}

func inspectPackage(pkg *uasset.Package) packageReport {
	ar := pkg.Archive()
	r := packageReport{
		Name:         pkg.Name,
		FolderName:   pkg.Summary.FolderName,
		ByteOrder:    "little-endian",
		LicenseeVer:  pkg.Summary.FileVersionLicensee,
		PackageFlags: pkg.Summary.PackageFlags,
		HeaderSize:   int(pkg.Summary.TotalHeaderSize),
		Names:        []string{},
		Imports:      []importReport{},
		Exports:      []exportReport{},
	}
	if !pkg.LittleEndian() {
		r.ByteOrder = "big-endian"
	}
	if ar.HeaderSize() > 0 {
		r.ExportDataSize = ar.Size()
	} else {
		r.ExportDataSize = ar.Size() - r.HeaderSize
	}
	for _, e := range pkg.Names.Entries() {
		r.Names = append(r.Names, e.Text)
	}
	for i, imp := range pkg.Imports {
		path, _ := pkg.ImportPackagePath(imp)
		r.Imports = append(r.Imports, importReport{
			Index:        int32(uasset.ImportIndex(i)),
			ClassPackage: imp.ClassPackage.Text(),
			ClassName:    imp.ClassName.Text(),
			ObjectName:   imp.ObjectName.Text(),
			Outer:        int32(imp.OuterIndex),
			PackagePath:  path,
		})
	}
	for i, e := range pkg.Exports {
		r.Exports = append(r.Exports, exportReport{
			Index:      int32(uasset.ExportIndex(i)),
			ClassName:  e.ClassName(),
			ObjectName: e.ObjectName.Text(),
			Outer:      int32(e.OuterIndex),
			SerialSize: e.SerialSize,
			Offset:     e.SerialOffset,
		})
	}
	return r
}

func printInspectText(w io.Writer, r packageReport) error {
	fmt.Fprintf(w, "Package:     %s\n", r.Name)
	if r.FolderName != "" {
		fmt.Fprintf(w, "Folder:      %s\n", r.FolderName)
	}
	fmt.Fprintf(w, "Byte order:  %s\n", r.ByteOrder)
	fmt.Fprintf(w, "Header:      %s\n", humanize.IBytes(uint64(r.HeaderSize)))
	fmt.Fprintf(w, "Export data: %s\n", humanize.IBytes(uint64(r.ExportDataSize)))
	fmt.Fprintf(w, "Names:       %s\n", humanize.Comma(int64(len(r.Names))))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nIMPORT\tCLASS\tNAME\tOUTER\tPACKAGE\n")
	for _, imp := range r.Imports {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", imp.Index, imp.ClassName, imp.ObjectName, imp.Outer, imp.PackagePath)
	}
	fmt.Fprintf(tw, "\nEXPORT\tCLASS\tNAME\tOUTER\tSIZE\n")
	for _, e := range r.Exports {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", e.Index, e.ClassName, e.ObjectName, e.Outer, humanize.IBytes(uint64(e.SerialSize)))
	}
	return tw.Flush()
}
