package domain

type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityPreorder   Availability = "preorder"
	AvailabilityBackorder  Availability = "backorder"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreorder, AvailabilityBackorder:
		return true
	default:
		return false
	}
}

// DatedAvailability reports whether an availability date may accompany a.
func (a Availability) DatedAvailability() bool {
	return a == AvailabilityPreorder || a == AvailabilityBackorder
}

type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRefurbished:
		return true
	default:
		return false
	}
}
