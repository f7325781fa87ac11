/*Package interval scans an interval-union stored as a sorted list of
  endpoints, visiting the covered positions in order.
  (Note the 'union'.  The endpoint list must already describe disjoint
  intervals; this package does not merge overlapping ranges itself, so
  callers merge them before building the list.)
  It assumes every position fits in a PosType, currently defined as int32,
  far wider than any page will ever be tall.
*/
package interval
