package shift

import "github.com/m04kA/BarberBookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
