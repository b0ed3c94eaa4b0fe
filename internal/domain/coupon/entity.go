package coupon

// Coupon is the new-issuance aggregate handed to the store. Persisted
// state is owned by the store; later transitions (verify, void) are
// conditional updates keyed on the current status, so reads come back
// as query views rather than re-hydrated aggregates.
type Coupon struct {
	code          Code
	status        Status
	issuedBranch  string
	customerPhone Phone
	discount      Discount
	headcount     Headcount
}

func NewIssued(code Code, issuedBranch string, phone Phone, discount Discount, headcount Headcount) *Coupon {
	return &Coupon{
		code:          code,
		status:        StatusIssued,
		issuedBranch:  issuedBranch,
		customerPhone: phone,
		discount:      discount,
		headcount:     headcount,
	}
}

func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Status() Status        { return c.status }
func (c *Coupon) IssuedBranch() string  { return c.issuedBranch }
func (c *Coupon) CustomerPhone() Phone  { return c.customerPhone }
func (c *Coupon) Discount() Discount    { return c.discount }
func (c *Coupon) Headcount() Headcount  { return c.headcount }
