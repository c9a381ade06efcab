// Package med extracts meshes, node and element sets, and nodal result fields
// from MED containers (.med meshes and .rmed results written by Code Aster
// and SALOME).
//
// # Layout
//
// A MED file is an HDF5 tree. The groups read here are:
//
//	/ENS_MAA/<mesh>[/<step>]/NOE/{COO,NUM,NOM,FAM}     node table
//	/ENS_MAA/<mesh>[/<step>]/MAI/<TYPE>/{NOD,NUM,NOM,FAM}  cells of one geometry
//	/FAS/<mesh>/{NOEUD,ELEME}/FAM_<id>_<label>/GRO/NOM  family table
//	/CHA/<field>/<step>/NOE/<profile>/CO               nodal field values
//
// Coordinates, connectivity and field values are stored component-major:
// every first component, then every second component, and so on.
// Connectivity stores 1-based positions in the node table, which the reader
// translates into node identifiers.
//
// # Identifiers
//
// Node and element identifiers come from NUM when present, otherwise from
// the digits of the NOM names ("N12" is node 12), otherwise they are
// implicit: 1, 2, ... in stored order. Implicit element numbering restarts in
// every element type group and is flagged with mesh.ElementGroup.ImplicitIDs.
//
// # Errors
//
// Every failure wraps one of the sentinel errors below; test with errors.Is.
// Nothing is returned on failure, a Snapshot is either complete or absent.
package med
