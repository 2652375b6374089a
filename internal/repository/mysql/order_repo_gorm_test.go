package mysql

import (
	"errors"
	"fmt"
	"testing"

	"shop-service/internal/domain"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestTranslateErr(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "lock wait timeout is retryable",
			err:       &gomysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"},
			retryable: true,
		},
		{
			name:      "deadlock is retryable",
			err:       &gomysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"},
			retryable: true,
		},
		{
			name:      "wrapped deadlock is still recognized",
			err:       fmt.Errorf("create order: %w", &gomysql.MySQLError{Number: 1213, Message: "Deadlock found"}),
			retryable: true,
		},
		{
			name:      "other mysql errors pass through",
			err:       &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			retryable: false,
		},
		{
			name:      "domain errors pass through untouched",
			err:       domain.ErrOrderNotCancellable,
			retryable: false,
		},
		{
			name: "nil stays nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateErr(tt.err)

			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			if tt.retryable {
				assert.ErrorIs(t, got, domain.ErrTransientStorage)
				// the original driver error stays in the chain
				var mysqlErr *gomysql.MySQLError
				assert.True(t, errors.As(got, &mysqlErr))
			} else {
				assert.NotErrorIs(t, got, domain.ErrTransientStorage)
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
