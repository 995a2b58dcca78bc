// Package form is the multipart field layout shared by the server and the
// client for records that carry an attachment: assets, aid, supplies and
// deliberations. Items of an update travel as Items[i].Id,
// Items[i].SubCategoryId and Items[i].Quantity.
package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ngoadmin/models"
)

// Field names.
const (
	Reference      = "Reference"
	Usage          = "Usage"
	Source         = "Source"
	SuppliesNature = "SuppliesNature"
	Date           = "Date"
	Type           = "Type"
	CashAmount     = "CashAmount"
	ProjectID      = "ProjectId"
	LegalFile      = "LegalFile"

	CategoryID     = "CategoryId"
	Brand          = "Brand"
	SerialNumber   = "SerialNumber"
	Value          = "Value"
	UsageLocation  = "UsageLocation"
	SourceNature   = "SourceNature"
	DeploymentDate = "DeploymentDate"
	EndDate        = "EndDate"
	Status         = "Status"

	Number    = "Number"
	DateTime  = "DateTime"
	Attendees = "Attendees"
	Document  = "Document"
)

const dateOnly = "2006-01-02"

func itemKey(i int, name string) string {
	return fmt.Sprintf("Items[%d].%s", i, name)
}

// AidValues encodes an aid header and its items.
func AidValues(in models.AidInput) url.Values {
	v := transactionValues(in.TransactionInput)
	v.Set(Usage, in.Usage)
	return v
}

// ParseAid decodes an aid form. Dates without a zone are read in loc.
func ParseAid(v url.Values, loc *time.Location) (models.AidInput, error) {
	t, err := parseTransaction(v, loc)
	if err != nil {
		return models.AidInput{}, err
	}
	return models.AidInput{TransactionInput: t, Usage: strings.TrimSpace(v.Get(Usage))}, nil
}

// SuppliesValues encodes a donation or purchase header and its items.
func SuppliesValues(in models.SuppliesInput) url.Values {
	v := transactionValues(in.TransactionInput)
	v.Set(Source, in.Source)
	v.Set(SuppliesNature, in.Nature)
	return v
}

func ParseSupplies(v url.Values, loc *time.Location) (models.SuppliesInput, error) {
	t, err := parseTransaction(v, loc)
	if err != nil {
		return models.SuppliesInput{}, err
	}
	return models.SuppliesInput{
		TransactionInput: t,
		Source:           strings.TrimSpace(v.Get(Source)),
		Nature:           v.Get(SuppliesNature),
	}, nil
}

func transactionValues(in models.TransactionInput) url.Values {
	v := url.Values{}
	v.Set(Reference, in.Reference)
	if in.Date != nil {
		v.Set(Date, in.Date.Format(time.RFC3339))
	}
	v.Set(Type, string(in.Type))
	v.Set(CashAmount, in.CashAmount.String())
	if in.ProjectID != nil {
		v.Set(ProjectID, strconv.Itoa(*in.ProjectID))
	}
	for i, it := range in.Items {
		if it.ID > 0 {
			v.Set(itemKey(i, "Id"), strconv.Itoa(it.ID))
		}
		v.Set(itemKey(i, "SubCategoryId"), strconv.Itoa(it.SubCategoryID))
		v.Set(itemKey(i, "Quantity"), strconv.Itoa(it.Quantity))
	}
	return v
}

func parseTransaction(v url.Values, loc *time.Location) (models.TransactionInput, error) {
	var (
		t   models.TransactionInput
		err error
	)
	t.Reference = strings.TrimSpace(v.Get(Reference))
	t.Type = models.TransactionType(strings.TrimSpace(v.Get(Type)))
	if t.Date, err = parseTime(v.Get(Date), loc); err != nil {
		return t, models.NewFieldError("date", models.MsgInvalidValue)
	}
	if t.CashAmount, err = parseDecimal(v.Get(CashAmount)); err != nil {
		return t, models.NewFieldError("cashAmount", models.MsgInvalidValue)
	}
	if t.ProjectID, err = parseIntPtr(v.Get(ProjectID)); err != nil {
		return t, models.NewFieldError("projectId", models.MsgInvalidValue)
	}
	if t.Items, err = parseItems(v); err != nil {
		return t, err
	}
	return t, nil
}

// itemCount returns one past the highest Items[i] index present.
func itemCount(v url.Values) (int, error) {
	n := 0
	for key := range v {
		rest, ok := strings.CutPrefix(key, "Items[")
		if !ok {
			continue
		}
		idx, _, ok := strings.Cut(rest, "]")
		i, err := strconv.Atoi(idx)
		if !ok || err != nil || i < 0 {
			return 0, models.NewFieldError("items", models.MsgInvalidValue)
		}
		if i+1 > n {
			n = i + 1
		}
	}
	return n, nil
}

// parseItems reads Items[0..n). Every index up to the highest one sent must
// carry a subcategory; a gap is rejected rather than truncating the list.
func parseItems(v url.Values) ([]models.ItemInput, error) {
	n, err := itemCount(v)
	if err != nil {
		return nil, err
	}
	var items []models.ItemInput
	for i := 0; i < n; i++ {
		sub, ok := v[itemKey(i, "SubCategoryId")]
		if !ok {
			return nil, models.NewFieldError("items", "الفئة الفرعية مطلوبة")
		}
		var (
			it  models.ItemInput
			err error
		)
		if it.SubCategoryID, err = strconv.Atoi(first(sub)); err != nil {
			return nil, models.NewFieldError("items", "الفئة الفرعية مطلوبة")
		}
		if it.Quantity, err = strconv.Atoi(v.Get(itemKey(i, "Quantity"))); err != nil {
			return nil, models.NewFieldError("items", "الكمية يجب أن تكون 1 على الأقل")
		}
		if id := v.Get(itemKey(i, "Id")); id != "" {
			if it.ID, err = strconv.Atoi(id); err != nil {
				return nil, models.NewFieldError("items", models.MsgInvalidValue)
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// AssetValues encodes an asset.
func AssetValues(in models.AssetInput) url.Values {
	v := url.Values{}
	v.Set(CategoryID, strconv.Itoa(in.CategoryID))
	v.Set(Brand, in.Brand)
	v.Set(SerialNumber, in.SerialNumber)
	v.Set(Value, in.Value.String())
	v.Set(UsageLocation, in.UsageLocation)
	v.Set(Source, in.Source)
	v.Set(SourceNature, in.SourceNature)
	if in.DeploymentDate != nil {
		v.Set(DeploymentDate, in.DeploymentDate.Format(dateOnly))
	}
	if in.EndDate != nil {
		v.Set(EndDate, in.EndDate.Format(dateOnly))
	}
	v.Set(Status, in.Status)
	return v
}

func ParseAsset(v url.Values, loc *time.Location) (models.AssetInput, error) {
	var (
		a   models.AssetInput
		err error
	)
	if c := v.Get(CategoryID); c != "" {
		if a.CategoryID, err = strconv.Atoi(c); err != nil {
			return a, models.NewFieldError("categoryId", models.MsgInvalidValue)
		}
	}
	a.Brand = strings.TrimSpace(v.Get(Brand))
	a.SerialNumber = strings.TrimSpace(v.Get(SerialNumber))
	if a.Value, err = parseDecimal(v.Get(Value)); err != nil {
		return a, models.NewFieldError("value", models.MsgInvalidValue)
	}
	a.UsageLocation = strings.TrimSpace(v.Get(UsageLocation))
	a.Source = strings.TrimSpace(v.Get(Source))
	a.SourceNature = v.Get(SourceNature)
	if a.DeploymentDate, err = parseTime(v.Get(DeploymentDate), loc); err != nil {
		return a, models.NewFieldError("deploymentDate", models.MsgInvalidValue)
	}
	if a.EndDate, err = parseTime(v.Get(EndDate), loc); err != nil {
		return a, models.NewFieldError("endDate", models.MsgInvalidValue)
	}
	a.Status = v.Get(Status)
	return a, nil
}

// DeliberationValues encodes a deliberation; attendees repeat the key.
func DeliberationValues(in models.DeliberationInput) url.Values {
	v := url.Values{}
	v.Set(Number, in.Number)
	if in.DateTime != nil {
		v.Set(DateTime, in.DateTime.Format(time.RFC3339))
	}
	for _, a := range in.Attendees {
		v.Add(Attendees, a)
	}
	return v
}

func ParseDeliberation(v url.Values, loc *time.Location) (models.DeliberationInput, error) {
	d := models.DeliberationInput{
		Number:    v.Get(Number),
		Attendees: v[Attendees],
	}
	var err error
	if d.DateTime, err = parseTime(v.Get(DateTime), loc); err != nil {
		return d, models.NewFieldError("dateTime", models.MsgInvalidValue)
	}
	return d, nil
}

func parseTime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", dateOnly} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseIntPtr(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
