package dto

// Keys accepted for a business profile entry. Address has legacy aliases.
var (
	KeyBusinessType       = []string{"business_type", "businessType"}
	KeyCompanyName        = []string{"company_name", "companyName"}
	KeyCategoryID         = []string{"category_id", "categoryId"}
	KeyNewCategoryName    = []string{"new_category_name", "newCategoryName", "category_name"}
	KeyRegistrationType   = []string{"business_registration_type", "businessRegistrationType"}
	KeyRegistrationOther  = []string{"business_registration_type_other", "businessRegistrationTypeOther", "other_registration_type"}
	KeyAbout              = []string{"about", "description"}
	KeyCompanyAddress     = []string{"company_address", "address", "businessAddress"}
	KeyCity               = []string{"city"}
	KeyState              = []string{"state"}
	KeyZipCode            = []string{"zip_code", "zipCode"}
	KeyStartingYear       = []string{"business_starting_year", "businessStartingYear"}
	KeyWorkContract       = []string{"work_contract", "workContract"}
	KeyContactNumber      = []string{"contact_number", "contactNumber"}
	KeyStaffSize          = []string{"staff_size", "staffSize"}
	KeyExperience         = []string{"experience"}
	KeyDesignation        = []string{"designation"}
	KeySalary             = []string{"salary"}
	KeyLocation           = []string{"location"}
	KeyEmail              = []string{"email"}
	KeySource             = []string{"source"}
	KeyTags               = []string{"tags"}
	KeyWebsite            = []string{"website"}
	KeyFacebookLink       = []string{"facebook_link", "facebookLink"}
	KeyInstagramLink      = []string{"instagram_link", "instagramLink"}
	KeyLinkedinLink       = []string{"linkedin_link", "linkedinLink"}
	KeyYoutubeLink        = []string{"youtube_link", "youtubeLink"}
	KeyExclusiveBenefit   = []string{"exclusive_member_benefit", "exclusiveMemberBenefit"}
	KeyBusinessProfileObj = "business_profile"
	KeyRemovedMedia       = "removed_media"
)

// UpdateProfileStatusRequest moderates a business profile
type UpdateProfileStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=Pending Approved Rejected" example:"Rejected"`
	RejectionReason *string `json:"rejection_reason" example:"Incomplete company details"`
}
