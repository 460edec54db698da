package commands

// ItemFailure is one rejected item of a bulk operation.
type ItemFailure struct {
	ID  string
	Err error
}

// Reason is the message shown to the caller.
func (f ItemFailure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// BulkResult partitions the items of a bulk operation. Items are processed
// independently and one failure never undoes another item's success.
type BulkResult struct {
	Succeeded []string
	Failed    []ItemFailure
}

func (r *BulkResult) add(id string, err error) {
	if err != nil {
		r.Failed = append(r.Failed, ItemFailure{ID: id, Err: err})
		return
	}
	r.Succeeded = append(r.Succeeded, id)
}
