package med

import (
	"errors"

	"github.com/notargets/medread/decode"
)

var (
	ErrMeshNotFound    = errors.New("mesh not found")
	ErrAmbiguousMesh   = errors.New("several meshes found, a mesh name is required")
	ErrFieldNotFound   = errors.New("field not found")
	ErrSetTableMissing = errors.New("set table missing")

	ErrLayout = decode.ErrLayout
	ErrDecode = decode.ErrDecode
	ErrParse  = decode.ErrParse
)
