// Package qualify applies the ordered qualification criteria to an event and
// its analysis.
//
// Evaluation short-circuits: the first failing criterion determines the
// rejection reason. Criteria whose underlying data is absent are skipped
// rather than failed: the pipeline must qualify events even when some
// enrichment failed upstream, but whichever signals are available must all
// favor the predicted side.
package qualify
