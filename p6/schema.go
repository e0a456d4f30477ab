package p6

import (
	"encoding/xml"
	"fmt"
	"p6export/table"
	"strings"
)

const (
	servicePathPrefix = "/p6ws/services/"
	namespacePrefix   = "http://xmlns.oracle.com/Primavera/P6/WS/"
	namespaceVersion  = "/V1"
)

// Kind names one remote entity type.
type Kind string

const (
	KindResourceHour                   Kind = "ResourceHour"
	KindResource                       Kind = "Resource"
	KindResourceRate                   Kind = "ResourceRate"
	KindTimesheet                      Kind = "Timesheet"
	KindResourceAssignment             Kind = "ResourceAssignment"
	KindResourceAssignmentPeriodActual Kind = "ResourceAssignmentPeriodActual"
)

// AllKinds is the order in which a full export reads and writes.
var AllKinds = []Kind{
	KindResourceHour,
	KindResource,
	KindResourceRate,
	KindTimesheet,
	KindResourceAssignment,
	KindResourceAssignmentPeriodActual,
}

// ParseKind accepts a kind or its artifact name, ignoring case, dashes and
// underscores: "resource-hour", "ResourceHours" and "RESOURCE_HOUR" all match.
func ParseKind(value string) (Kind, error) {
	key := normalizeKindKey(value)
	if key == "" {
		return "", fmt.Errorf("entity kind is required")
	}
	for _, descriptor := range Describe() {
		if key == normalizeKindKey(string(descriptor.Kind)) || key == normalizeKindKey(descriptor.Artifact) {
			return descriptor.Kind, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind %q", value)
}

func normalizeKindKey(value string) string {
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}

// Entity binds a record type to its remote service and its output columns.
// The column list is both the requested field subset and the row layout.
type Entity[T any] struct {
	Kind     Kind
	Artifact string
	Columns  []table.Column[T]
}

func (e Entity[T]) Service() string {
	return string(e.Kind) + "Service"
}

func (e Entity[T]) Path() string {
	return servicePathPrefix + e.Service()
}

func (e Entity[T]) Operation() string {
	return "Read" + e.Artifact
}

func (e Entity[T]) Namespace() string {
	return namespacePrefix + string(e.Kind) + namespaceVersion
}

func (e Entity[T]) Fields() []string {
	return table.Fields(e.Columns)
}

// RequiredFields lists the fields every record must carry.
func (e Entity[T]) RequiredFields() []string {
	var fields []string
	for _, column := range e.Columns {
		if !column.Optional {
			fields = append(fields, column.Field)
		}
	}
	return fields
}

func (e Entity[T]) ResponseName() xml.Name {
	return xml.Name{Space: e.Namespace(), Local: e.Operation() + "Response"}
}

func (e Entity[T]) Headers() []string {
	return table.Headers(e.Columns)
}

// Project flattens records into the entity's artifact table.
func (e Entity[T]) Project(records []T) (table.Table, error) {
	return table.Project(e.Artifact, e.Columns, records)
}

// Descriptor is the type-erased view of an Entity.
type Descriptor struct {
	Kind      Kind
	Artifact  string
	Service   string
	Path      string
	Operation string
	Namespace string
	Fields    []string
	Headers   []string
	Optional  []string
}

func (e Entity[T]) Describe() Descriptor {
	var optional []string
	for _, column := range e.Columns {
		if column.Optional {
			optional = append(optional, column.Header)
		}
	}
	return Descriptor{
		Kind:      e.Kind,
		Artifact:  e.Artifact,
		Service:   e.Service(),
		Path:      e.Path(),
		Operation: e.Operation(),
		Namespace: e.Namespace(),
		Fields:    e.Fields(),
		Headers:   e.Headers(),
		Optional:  optional,
	}
}

// Describe lists every entity in AllKinds order.
func Describe() []Descriptor {
	return []Descriptor{
		ResourceHours.Describe(),
		Resources.Describe(),
		ResourceRates.Describe(),
		Timesheets.Describe(),
		ResourceAssignments.Describe(),
		ResourceAssignmentPeriodActuals.Describe(),
	}
}

func DescriptorFor(kind Kind) (Descriptor, bool) {
	for _, descriptor := range Describe() {
		if descriptor.Kind == kind {
			return descriptor, true
		}
	}
	return Descriptor{}, false
}

var ResourceHours = Entity[ResourceHour]{
	Kind:     KindResourceHour,
	Artifact: "ResourceHours",
	Columns: []table.Column[ResourceHour]{
		column("ObjectId", "OBJECT_ID", func(r ResourceHour) string { return formatID(r.ObjectID) }),
		optionalColumn("ProjectObjectId", "PROJECT_OBJECT_ID", func(r ResourceHour) Optional[int64] { return r.ProjectObjectID }, formatID),
		column("ResourceObjectId", "RESOURCE_OBJECT_ID", func(r ResourceHour) string { return formatID(r.ResourceObjectID) }),
		column("Status", "STATUS", func(r ResourceHour) string { return r.Status }),
		column("TimesheetPeriodObjectId", "TIMESHEET_PERIOD_OBJECT_ID", func(r ResourceHour) string { return formatID(r.TimesheetPeriodObjectID) }),
		optionalColumn("UnapprovedHours", "UNAPPROVED_HOURS", func(r ResourceHour) Optional[Decimal] { return r.UnapprovedHours }, Decimal.String),
		optionalColumn("ApprovedHours", "APPROVED_HOURS", func(r ResourceHour) Optional[Decimal] { return r.ApprovedHours }, Decimal.String),
		optionalColumn("Date", "DATE", func(r ResourceHour) Optional[Timestamp] { return r.Date }, Timestamp.String),
		column("ProjectName", "PROJECT_NAME", func(r ResourceHour) string { return r.ProjectName }),
		timeColumn("LastUpdateDate", "LAST_UPDATE_DATE", func(r ResourceHour) Timestamp { return r.LastUpdateDate }),
		column("LastUpdateUser", "LAST_UPDATE_USER", func(r ResourceHour) string { return r.LastUpdateUser }),
	},
}

var Resources = Entity[Resource]{
	Kind:     KindResource,
	Artifact: "Resources",
	Columns: []table.Column[Resource]{
		column("ObjectId", "OBJECT_ID", func(r Resource) string { return formatID(r.ObjectID) }),
		column("Name", "NAME", func(r Resource) string { return r.Name }),
		column("TimesheetApprovalManager", "TIMESHEET_APPROVAL_MANAGER", func(r Resource) string { return formatBool(r.TimesheetApprovalManager) }),
		column("UseTimesheets", "USE_TIMESHEETS", func(r Resource) string { return formatBool(r.UseTimesheets) }),
	},
}

var ResourceRates = Entity[ResourceRate]{
	Kind:     KindResourceRate,
	Artifact: "ResourceRates",
	Columns: []table.Column[ResourceRate]{
		timeColumn("EffectiveDate", "EFFECTIVE_DATE", func(r ResourceRate) Timestamp { return r.EffectiveDate }),
		column("ResourceObjectId", "RESOURCE_OBJECT_ID", func(r ResourceRate) string { return formatID(r.ResourceObjectID) }),
	},
}

var Timesheets = Entity[Timesheet]{
	Kind:     KindTimesheet,
	Artifact: "Timesheets",
	Columns: []table.Column[Timesheet]{
		column("TimesheetPeriodObjectId", "TIMESHEET_PERIOD_OBJECT_ID", func(r Timesheet) string { return formatID(r.TimesheetPeriodObjectID) }),
		column("ResourceObjectId", "RESOURCE_OBJECT_ID", func(r Timesheet) string { return formatID(r.ResourceObjectID) }),
		column("Status", "STATUS", func(r Timesheet) string { return r.Status }),
	},
}

var ResourceAssignments = Entity[ResourceAssignment]{
	Kind:     KindResourceAssignment,
	Artifact: "ResourceAssignments",
	Columns: []table.Column[ResourceAssignment]{
		optionalColumn("ResourceObjectId", "RESOURCE_OBJECT_ID", func(r ResourceAssignment) Optional[int64] { return r.ResourceObjectID }, formatID),
		optionalColumn("ActualUnits", "ACTUAL_UNITS", func(r ResourceAssignment) Optional[Decimal] { return r.ActualUnits }, Decimal.String),
		column("ProjectId", "PROJECT_ID", func(r ResourceAssignment) string { return r.ProjectID }),
		column("ObjectId", "OBJECT_ID", func(r ResourceAssignment) string { return formatID(r.ObjectID) }),
		optionalColumn("LastUpdateDate", "LAST_UPDATE_DATE", func(r ResourceAssignment) Optional[Timestamp] { return r.LastUpdateDate }, Timestamp.String),
		column("LastUpdateUser", "LAST_UPDATE_USER", func(r ResourceAssignment) string { return r.LastUpdateUser }),
	},
}

var ResourceAssignmentPeriodActuals = Entity[ResourceAssignmentPeriodActual]{
	Kind:     KindResourceAssignmentPeriodActual,
	Artifact: "ResourceAssignmentPeriodActuals",
	Columns: []table.Column[ResourceAssignmentPeriodActual]{
		column("ResourceAssignmentObjectId", "RESOURCE_ASSIGNMENT_OBJECT_ID", func(r ResourceAssignmentPeriodActual) string { return formatID(r.ResourceAssignmentObjectID) }),
		column("ActualUnits", "ACTUAL_UNITS", func(r ResourceAssignmentPeriodActual) string { return r.ActualUnits.String() }),
		column("FinancialPeriodObjectId", "FINANCIAL_PERIOD_OBJECT_ID", func(r ResourceAssignmentPeriodActual) string { return formatID(r.FinancialPeriodObjectID) }),
		timeColumn("LastUpdateDate", "LAST_UPDATE_DATE", func(r ResourceAssignmentPeriodActual) Timestamp { return r.LastUpdateDate }),
		column("LastUpdateUser", "LAST_UPDATE_USER", func(r ResourceAssignmentPeriodActual) string { return r.LastUpdateUser }),
	},
}

func column[T any](field, header string, value func(T) string) table.Column[T] {
	return table.Column[T]{
		Field:  field,
		Header: header,
		Value: func(record T) (string, bool) {
			return value(record), true
		},
	}
}

// timeColumn is a required timestamp; a zero value means the element never
// arrived and projection fails instead of writing an empty cell.
func timeColumn[T any](field, header string, get func(T) Timestamp) table.Column[T] {
	return table.Column[T]{
		Field:  field,
		Header: header,
		Value: func(record T) (string, bool) {
			ts := get(record)
			return ts.String(), !ts.IsZero()
		},
	}
}

func optionalColumn[T, V any](field, header string, get func(T) Optional[V], format func(V) string) table.Column[T] {
	return table.Column[T]{
		Field:    field,
		Header:   header,
		Optional: true,
		Value: func(record T) (string, bool) {
			value, ok := get(record).Get()
			if !ok {
				return "", false
			}
			return format(value), true
		},
	}
}
