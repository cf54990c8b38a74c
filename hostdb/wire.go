package hostdb

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tarmac-project/indexeddb"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fnOpen       = "open"
	fnDeleteDB   = "delete_db"
	fnAdd        = "add"
	fnBulkAdd    = "bulk_add"
	fnPut        = "put"
	fnUpdate     = "update"
	fnGetByID    = "get_by_id"
	fnGetByIndex = "get_by_index"
	fnWhere      = "where"
	fnToArray    = "to_array"
	fnDelete     = "delete"
	fnClear      = "clear"

	// FnCompleted is the guest function the host calls with deferred completions.
	FnCompleted = "indexeddb_completed"

	hostStatusOK       = int32(200)
	hostStatusAccepted = int32(202)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

// Request and response keys.
const (
	keyDB          = "db"
	keyVersion     = "version"
	keyStores      = "stores"
	keyTransaction = "transaction"
	keyWait        = "wait"
	keyName        = "name"
	keyStore       = "store"
	keyRecord      = "record"
	keyRecords     = "records"
	keyKey         = "key"
	keyIndex       = "index"
	keyValue       = "value"
	keyFilters     = "filters"
	keyStatus      = "status"
	keyCode        = "code"
	keyMessage     = "message"
	keyFailed      = "failed"
)

// plain converts v to the generic JSON shape structpb accepts.
func plain(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func plainAll(vs []any) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		p, err := plain(v)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func filtersValue(filters []indexeddb.IndexFilter) ([]any, error) {
	out := make([]any, len(filters))
	for i, f := range filters {
		v, err := plain(f.Value)
		if err != nil {
			return nil, err
		}
		out[i] = map[string]any{keyIndex: f.Index, keyValue: v}
	}
	return out, nil
}

func storesValue(stores []indexeddb.StoreSchema) []any {
	strs := func(in []string) []any {
		out := make([]any, len(in))
		for i, s := range in {
			out[i] = s
		}
		return out
	}

	out := make([]any, len(stores))
	for i, st := range stores {
		out[i] = map[string]any{
			"name":           st.Name,
			"primaryKey":     st.PrimaryKey,
			"primaryKeyAuto": st.PrimaryKeyAuto,
			"uniqueIndexes":  strs(st.UniqueIndexes),
			"indexes":        strs(st.Indexes),
		}
	}
	return out
}

func encode(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	b, err := proto.Marshal(s)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	return b, nil
}

// decodeStatus reads a mutation response.
func decodeStatus(b []byte) (*sdkproto.Status, error) {
	var status sdkproto.Status
	if err := status.UnmarshalVT(b); err != nil {
		return nil, errors.Join(indexeddb.ErrHostResponseInvalid, indexeddb.ErrUnmarshalResponse, err)
	}
	return &status, nil
}

// decodeQuery reads a query response and its embedded status.
func decodeQuery(b []byte) (*structpb.Struct, *sdkproto.Status, error) {
	var resp structpb.Struct
	if err := proto.Unmarshal(b, &resp); err != nil {
		return nil, nil, errors.Join(indexeddb.ErrHostResponseInvalid, indexeddb.ErrUnmarshalResponse, err)
	}

	st := resp.GetFields()[keyStatus].GetStructValue()
	if st == nil {
		return &resp, nil, nil
	}
	return &resp, &sdkproto.Status{
		Code:   int32(st.GetFields()[keyCode].GetNumberValue()),
		Status: st.GetFields()[keyMessage].GetStringValue(),
	}, nil
}

func validateStatus(status *sdkproto.Status, callErr error) error {
	if status == nil {
		if callErr != nil {
			return errors.Join(indexeddb.ErrHostCall, callErr, indexeddb.ErrHostResponseInvalid)
		}
		return indexeddb.ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if callErr != nil {
			return errors.Join(indexeddb.ErrHostCall, callErr, indexeddb.ErrHostError, errors.New(detail))
		}
		return errors.Join(indexeddb.ErrHostError, errors.New(detail))
	default:
		statusErr := fmt.Errorf("unexpected host status code %d", code)
		if callErr != nil {
			return errors.Join(indexeddb.ErrHostCall, callErr, indexeddb.ErrHostResponseInvalid, statusErr)
		}
		return errors.Join(indexeddb.ErrHostResponseInvalid, statusErr)
	}
}

// failedStatus reports whether a validated status error came from the host
// rejecting the operation rather than from a broken exchange.
func failedStatus(err error) bool {
	return errors.Is(err, indexeddb.ErrHostError)
}
