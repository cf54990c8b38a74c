/*
Package field resolves named fields on opaque records and compares field
values for the IndexedDB query operations.

Lookup tries, in order: the record's own Accessor implementation, an accessor
registered for the record's type with Register, string-keyed maps, and finally
the exported fields of structs. Names match case-insensitively. Struct fields
also match their json tag name. When a map holds several keys that differ only
in case, an exact match wins, otherwise the lexically smallest key does, so
lookups never depend on map iteration order.

Equal implements the comparison rule used by GetRecordByIndex and Where:

  - nil equals only nil.
  - Numbers compare by value across Go numeric types and json.Number, so an
    int filter matches a float64 decoded from the host.
  - Strings compare exactly, including named string types.
  - Values of different kinds (a string and a number, say) never match.
  - time.Time values compare with Time.Equal.
  - Values of one type compare with == when both are comparable at run time
    (a struct whose interface field holds a slice is not), and with
    reflect.DeepEqual otherwise.
*/
package field
