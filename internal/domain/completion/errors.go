package completion

import "github.com/rishangit/s-ams-sub002/internal/httperr"

var (
	ErrNotFound           = httperr.ErrBusiness("completion_record_not_found")
	ErrAlreadyExists      = httperr.ErrBusiness("completion_record_exists")
	ErrReadOnly           = httperr.ErrBusiness("read_only")
	ErrDuplicateProduct   = httperr.ErrBusiness("duplicate_product")
	ErrProductUnavailable = httperr.ErrBusiness("product_unavailable")
	ErrLineNotFound       = httperr.ErrBusiness("line_not_found")
	ErrProductNotFound    = httperr.ErrBusiness("product_not_found")
)
