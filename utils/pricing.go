package utils

// ServiceFeePercent is the marketplace fee charged on top of the hourly rate.
const ServiceFeePercent = 10

// ServiceFee returns rate*10% rounded half away from zero.
func ServiceFee(rate int) int {
	n := rate * ServiceFeePercent
	if n < 0 {
		return -((-n + 50) / 100)
	}
	return (n + 50) / 100
}

// ComputeTotal is the amount a client pays for one booking at rate. The fee
// is rounded on its own and then added to the untouched rate.
func ComputeTotal(rate int) int {
	return rate + ServiceFee(rate)
}

// ToMinorUnits converts whole currency units to cents.
func ToMinorUnits(amount int) int64 {
	return int64(amount) * 100
}
