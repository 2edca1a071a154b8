package ingest

// DefaultCorpus returns the built-in HR policy documents used to seed an
// empty database when no corpus file is supplied.
func DefaultCorpus() []SeedDocument {
	return []SeedDocument{
		{
			Title:   "سياسة الإجازات السنوية",
			Content: "يحق لكل موظف إجازة سنوية مدتها 30 يومًا مدفوعة الأجر. يجب تقديم طلب الإجازة قبل أسبوعين على الأقل من تاريخ بدايتها، ويخضع الطلب لموافقة المدير المباشر. لا يمكن ترحيل أكثر من 10 أيام من الإجازة السنوية إلى السنة التالية.",
		},
		{
			Title:   "سياسة ساعات العمل",
			Content: "ساعات العمل الرسمية من الساعة 9 صباحًا حتى الساعة 5 مساءً من الأحد إلى الخميس. يسمح بالمرونة في الحضور بحد أقصى ساعة واحدة شريطة إكمال 8 ساعات عمل يوميًا.",
		},
		{
			Title:   "سياسة الإجازات المرضية",
			Content: "يحق للموظف إجازة مرضية مدفوعة الأجر بحد أقصى 15 يومًا في السنة بتقرير طبي معتمد. الإجازة المرضية التي تتجاوز ثلاثة أيام متصلة تتطلب تقريرًا من جهة طبية معتمدة لدى المؤسسة.",
		},
		{
			Title:   "سياسة العمل عن بعد",
			Content: "يمكن للموظفين العمل عن بعد يومين في الأسبوع كحد أقصى بعد موافقة المدير المباشر. يجب أن يكون الموظف متاحًا خلال ساعات العمل الرسمية وأن يحضر الاجتماعات الأساسية في المقر عند الطلب.",
		},
		{
			Title:   "سياسة التدريب والتطوير",
			Content: "توفر المؤسسة ميزانية تدريب سنوية لكل موظف. يحق للموظف التقدم بطلب لحضور دورات تدريبية متخصصة بما يتوافق مع خطة تطويره المهني وبموافقة إدارة الموارد البشرية.",
		},
	}
}
