// Package uasset reads and writes Unreal Engine 4 style packages.
//
// A package is split across physical segments that share one logical
// offset space:
//   - a header segment (.uasset or .umap) with the package summary, the
//     name map, the import table and the export table
//   - an optional export segment (.uexp) with the serialized export bodies
//   - optional bulk segments (.ubulk, .uptnl) with large payloads
//
// Offsets stored in the format count from the start of the header segment.
// An [AssetArchive] knows the sizes of the segments that precede its own
// bytes and translates such offsets with [AssetArchive.SeekRelative].
//
// # Object references
//
// A [PackageIndex] is zero for null, positive for an export of the same
// package and negative for an import. Imports are resolved by loading the
// package that owns them through a [Provider] and looking up an export with
// the same class and object name. Loaded packages are kept in an
// [ImportCache] shared by every package of one session, so cyclic imports
// terminate.
//
// Unresolvable imports are not errors: they yield nil and a warning on the
// configured [log/slog] logger. Corrupt data (name or package index out of
// range, reads past the end of a segment, missing or duplicate payloads)
// fails with an error wrapping one of the package sentinels.
//
// # Basic Usage
//
//	p, _ := uasset.NewFSProvider(os.DirFS("Paks"), uasset.WithGameName("FortniteGame"))
//	pkg, err := p.LoadPackage("/Game/Athena/Items/Offer")
//	if err != nil {
//		return err
//	}
//	offer, err := uasset.LoadExportAs[*uasset.MtxOfferData](pkg.Archive(), pkg.Exports[0])
//
// Packages are written with a [Builder].
package uasset
