package script

// Code points named below are from the Unicode Arabic block (0600-06FF).
// The tables cover what actually occurs in the Tanzil Uthmani and simple
// texts; everything else classifies as Separator.
const (
	Hamza       = 'ء' // ء
	AlefMadda   = 'آ' // آ
	AlefHamza   = 'أ' // أ
	WawHamza    = 'ؤ' // ؤ
	AlefHamzaLo = 'إ' // إ
	YaHamza     = 'ئ' // ئ
	Alef        = 'ا' // ا
	TaMarbuta   = 'ة' // ة
	Tatweel     = 'ـ' // ـ
	Fa          = 'ف' // ف
	Ha          = 'ه' // ه
	Waw         = 'و' // و
	AlefMaqsura = 'ى' // ى
	Ya          = 'ي' // ي
	SuperAlef   = 'ٰ' // dagger alef mark
	AlefWasla   = 'ٱ' // ٱ
)

// foldTable maps each letter variant to its canonical base letter.
// Membership is fixed upstream: the three hamza-carrying alef forms and
// alef wasla fold to bare alef, ta marbuta to ha, alef maqsura to ya.
var foldTable = map[rune]rune{
	AlefMadda:   Alef,
	AlefHamza:   Alef,
	AlefHamzaLo: Alef,
	AlefWasla:   Alef,
	TaMarbuta:   Ha,
	AlefMaqsura: Ya,
}

// classTable maps every known code point to its class. Built once at
// package init from the range definitions below.
var classTable = make(map[rune]Class)

// classRange assigns one class to an inclusive rune range.
type classRange struct {
	lo, hi rune
	class  Class
}

var classRanges = []classRange{
	{0x0621, 0x063A, BaseLetter}, // hamza through ghain
	{0x0641, 0x064A, BaseLetter}, // fa through ya
	{0x064B, 0x0652, Diacritic},  // tashkeel: tanween, short vowels, shadda, sukun
	{0x0653, 0x065F, Diacritic},  // maddah, hamza marks, subscript alef, small marks
	{0x06D6, 0x06DC, Diacritic},  // small high ligatures (waqf marks)
	{0x06DF, 0x06E8, Diacritic},  // small high/low letters and marks
	{0x06EA, 0x06ED, Diacritic},  // small low/high meem and empty centre marks
}

// classOverrides refine the ranges with single code points.
var classOverrides = map[rune]Class{
	Tatweel:   Diacritic, // kashida carries no phonetic value but is not a letter
	SuperAlef: Diacritic, // dagger alef is a combining mark in the Uthmani text
	AlefWasla: Variant,
	0x06DD:    Separator, // end of ayah ornament
	0x06DE:    Separator, // start of rub el hizb ornament
	0x06E9:    Separator, // place of sajdah ornament
}

func init() {
	for _, cr := range classRanges {
		for r := cr.lo; r <= cr.hi; r++ {
			classTable[r] = cr.class
		}
	}
	for r := range foldTable {
		classTable[r] = Variant
	}
	for r, c := range classOverrides {
		if c == Separator {
			delete(classTable, r)
			continue
		}
		classTable[r] = c
	}
}
