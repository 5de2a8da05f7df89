package engine

import (
	"fmt"
	"path/filepath"
	"time"
)

// getResultFolder builds <results>/<symbol>/<strategy>/<start>_<end>/<session>.
func getResultFolder(resultsFolder string, symbol string, strategyName string, start time.Time, end time.Time, sessionID string) string {
	timeRange := fmt.Sprintf("%s_%s", start.Format("20060102"), end.Format("20060102"))

	return filepath.Join(resultsFolder, symbol, strategyName, timeRange, sessionID)
}
