package criteria

import "github.com/rhq-project/rhq-coregui/internal/model"

var availabilitySchema = newSchema("Availability", "rhq_availability", &model.Availability{}).
	filter("resourceId", KindInt).
	filterOn("resourceIds", KindIntList, "resource_id").
	filter("availabilityType", KindEnum).values(model.AvailabilityTypeValues()...).
	override("startTime", KindInt64, "rhq_availability.start_time >= ?").
	override("endTime", KindInt64, "rhq_availability.end_time <= ?").
	override("interval", KindInterval,
		"(rhq_availability.end_time IS NULL OR rhq_availability.end_time >= ?) AND rhq_availability.start_time <= ?").
	override("initialAvailability", KindInt64,
		"rhq_availability.start_time <= ? AND (rhq_availability.end_time IS NULL OR rhq_availability.end_time > ?)").
	exclusive("interval", "initialAvailability").
	fetch("resource").
	sort("startTime", "endTime", "availabilityType").
	authorize(AuthResource, "rhq_availability.resource_id")

// AvailabilityCriteria selects availability intervals of resources.
//
// The interval filter matches every interval overlapping a time range; the
// initial availability filter matches the single interval in effect at one
// instant. The two cannot be combined.
type AvailabilityCriteria struct {
	Base
}

func NewAvailabilityCriteria() *AvailabilityCriteria {
	c := &AvailabilityCriteria{}
	c.init(availabilitySchema)
	return c
}

func (c *AvailabilityCriteria) AddFilterResourceID(id int) { c.set("resourceId", id) }
func (c *AvailabilityCriteria) AddFilterResourceIDs(ids ...int) { c.set("resourceIds", ids) }
func (c *AvailabilityCriteria) AddFilterStartTime(t int64) { c.set("startTime", t) }
func (c *AvailabilityCriteria) AddFilterEndTime(t int64) { c.set("endTime", t) }

func (c *AvailabilityCriteria) AddFilterAvailabilityType(avail model.AvailabilityType) {
	c.set("availabilityType", string(avail))
}

// AddFilterInterval matches intervals overlapping [start, end].
func (c *AvailabilityCriteria) AddFilterInterval(start, end int64) error {
	interval, err := NewInterval(start, end)
	if err != nil {
		return err
	}
	def, _ := c.schema.FilterDef("interval")
	return c.put(def, interval)
}

// AddFilterInitialAvailability matches the interval in effect at t.
func (c *AvailabilityCriteria) AddFilterInitialAvailability(t int64) error {
	def, _ := c.schema.FilterDef("initialAvailability")
	return c.put(def, t)
}

func (c *AvailabilityCriteria) FetchResource(fetch bool) { c.fetch("resource", fetch) }

func (c *AvailabilityCriteria) AddSortStartTime(o model.PageOrdering) { c.sortBy("startTime", o) }
func (c *AvailabilityCriteria) AddSortEndTime(o model.PageOrdering) { c.sortBy("endTime", o) }
