package natspub

import (
	"fmt"
)

func GetTableEventSubject(tableID string) string {
	return fmt.Sprintf("table.%s.events", tableID)
}
