package postgres

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/upenergia/asset-management/internal"
)

var _ = Describe("conflictFromDB", func() {
	It("should translate an exclusion violation into Conflict", func() {
		dbErr := fmt.Errorf("insert failed: %w", &pgconn.PgError{
			Code:           "23P01",
			ConstraintName: "reservations_no_overlap",
		})

		err := conflictFromDB(dbErr)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		Expect(appErr.Code).To(Equal(internal.ErrCodeReservationConflict))
	})

	It("should pass other database errors through unchanged", func() {
		dbErr := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505"})
		Expect(conflictFromDB(dbErr)).To(Equal(dbErr))

		plain := errors.New("connection reset")
		Expect(conflictFromDB(plain)).To(Equal(plain))
	})

	It("should leave nil untouched", func() {
		Expect(conflictFromDB(nil)).To(Succeed())
	})
})
