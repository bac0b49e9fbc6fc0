package uasset

import "fmt"

func validateSummary(s PackageSummary, headerSize int, limits Limits) error {
	if s.NameCount < 0 || s.ImportCount < 0 || s.ExportCount < 0 {
		return fmt.Errorf("%w: negative table count", ErrInvalidHeader)
	}
	if int(s.NameCount) > limits.MaxNames {
		return fmt.Errorf("%w: %d names", ErrLimitExceeded, s.NameCount)
	}
	if int(s.ImportCount) > limits.MaxImports {
		return fmt.Errorf("%w: %d imports", ErrLimitExceeded, s.ImportCount)
	}
	if int(s.ExportCount) > limits.MaxExports {
		return fmt.Errorf("%w: %d exports", ErrLimitExceeded, s.ExportCount)
	}
	offsets := []struct {
		name   string
		offset int32
	}{
		{"name", s.NameOffset},
		{"import", s.ImportOffset},
		{"export", s.ExportOffset},
	}
	for _, o := range offsets {
		if o.offset < 0 || int(o.offset) > headerSize {
			return fmt.Errorf("%w: %s offset %d outside header of %d bytes", ErrInvalidHeader, o.name, o.offset, headerSize)
		}
	}
	if s.TotalHeaderSize < 0 || int(s.TotalHeaderSize) > headerSize {
		return fmt.Errorf("%w: total header size %d, segment is %d bytes", ErrInvalidHeader, s.TotalHeaderSize, headerSize)
	}
	if s.BulkDataStartOffset < 0 {
		return fmt.Errorf("%w: negative bulk data offset", ErrInvalidHeader)
	}
	return nil
}

// validatePackage checks every table reference and serial range so that
// corrupt headers fail in Open rather than at first use.
func validatePackage(p *Package) error {
	for i, imp := range p.Imports {
		if _, err := p.ResolveIndex(imp.OuterIndex); err != nil {
			return fmt.Errorf("import %d (%s) outer: %w", i, imp.ObjectName, err)
		}
	}
	for i, e := range p.Exports {
		refs := []struct {
			name string
			idx  PackageIndex
		}{
			{"class", e.ClassIndex},
			{"super", e.SuperIndex},
			{"template", e.TemplateIndex},
			{"outer", e.OuterIndex},
		}
		for _, r := range refs {
			if _, err := p.ResolveIndex(r.idx); err != nil {
				return fmt.Errorf("export %d (%s) %s: %w", i, e.ObjectName, r.name, err)
			}
		}
		if e.SerialSize < 0 || e.SerialSize > p.cfg.limits.MaxSerialSize {
			return fmt.Errorf("%w: export %d (%s) serial size %d", ErrLimitExceeded, i, e.ObjectName, e.SerialSize)
		}
		local := int64(p.ar.ToLocal(0)) + e.SerialOffset
		if e.SerialOffset < 0 || local < 0 || local+e.SerialSize > int64(p.ar.Size()) {
			return &ArchiveError{
				Op:      fmt.Sprintf("export %d (%s) serial range [%d, +%d)", i, e.ObjectName, e.SerialOffset, e.SerialSize),
				Pos:     int(local),
				Size:    p.ar.Size(),
				Package: p.Name,
				Err:     ErrOutOfRange,
			}
		}
	}
	return nil
}
