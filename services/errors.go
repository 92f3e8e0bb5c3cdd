package services

import "zdm_server_go/errors"

// wrapOp marks a persistence failure as ErrDataProcessing, naming what was
// being done and to which entity.
func wrapOp(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, "%s %s", op, entity), errors.ErrDataProcessing)
}

// unresolved turns a failed reference lookup into a client error: a
// request that names a missing center or user is malformed, not a 404.
func unresolved(err error, kind, ref string) error {
	if errors.IsNotFoundError(err) {
		return errors.NewInvalidRequestError("unknown %s %q", kind, ref)
	}
	return err
}
