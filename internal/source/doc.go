// Package source provides read-only discovery of C++ source files under
// configured engine and project roots.
//
// Discovery walks each root with filepath.WalkDir, keeping files whose
// extension marks them as C++ source (.h, .hpp, .hh, .hxx, .cpp, .cc,
// .cxx, .inl) and skipping build output (Intermediate, Binaries, Saved,
// DerivedDataCache), dot-directories, and symlinks. A .ueignore file at a
// root adds gitignore-style exclusions for that tree.
//
// Results carry both the absolute path for reading and a slash-separated
// root-relative path for display, and are sorted by origin then relative
// path so repeated walks over an unchanged tree are deterministic.
//
// Read enforces an optional size bound so callers can skip generated
// files too large to scan.
package source
