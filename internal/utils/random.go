package utils

import (
	"fmt"
	"math/rand"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(role domain.Role, zoneID *int64, password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         role,
		ZoneID:       zoneID,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// 用 Fisher-Yates 洗牌算法来生成随机的固定服务日
func GenerateRandomRecurringDays() []int32 {
	days := []int32{1, 2, 3, 4, 5, 6, 7}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(len(days)) + 1

	return days[:n]
}

func GenerateRandomZone() *domain.Zone {
	return &domain.Zone{
		Name:          "片区" + GenerateRandomID(3, 3),
		Description:   "片区描述" + GenerateRandomID(20, 10),
		RecurringDays: GenerateRandomRecurringDays(),
	}
}

var provinceAbbreviations = []string{"粤", "京", "沪", "苏", "浙", "鲁", "川", "湘"}
var plateLetters = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ")
var vehicleModels = []string{"洒水车", "垃圾清运车", "高压清洗车", "巡查车", "绿化养护车"}

func GenerateRandomPlateNumber() string {
	plate := provinceAbbreviations[rand.Intn(len(provinceAbbreviations))]
	plate += string(plateLetters[rand.Intn(len(plateLetters))])

	for i := 0; i < 5; i++ {
		if rand.Intn(2) == 0 {
			plate += string(plateLetters[rand.Intn(len(plateLetters))])
		} else {
			plate += string(digits[rand.Intn(len(digits))])
		}
	}
	return plate
}

func GenerateRandomVehicle(zoneID int64) *domain.Vehicle {
	return &domain.Vehicle{
		ZoneID:      zoneID,
		PlateNumber: GenerateRandomPlateNumber(),
		Model:       vehicleModels[rand.Intn(len(vehicleModels))],
	}
}

func GenerateRandomPhone() string {
	phone := "1" + string(digits[rand.Intn(9)+1])
	for i := 0; i < 9; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

func GenerateRandomDriver(zoneID int64) *domain.Driver {
	return &domain.Driver{
		ZoneID:   zoneID,
		FullName: GenerateRandomChineseName(),
		Phone:    GenerateRandomPhone(),
	}
}

func GenerateRandomManpower(zoneID int64) *domain.Manpower {
	return &domain.Manpower{
		ZoneID:   zoneID,
		FullName: GenerateRandomChineseName(),
		Phone:    GenerateRandomPhone(),
	}
}

// 随机生成一条排班记录
// 司机和勤务员取自车辆的固定班底，和手工排班时使用默认班底的行为一致
func GenerateRandomScheduleEntry(zone *domain.Zone, supervisor *domain.User, vehicle *domain.Vehicle, assignment *domain.VehicleAssignment) *domain.ServiceScheduleEntry {
	startHour := rand.Intn(12)
	duration := rand.Intn(8) + 1

	return &domain.ServiceScheduleEntry{
		ZoneID:       zone.ID,
		SupervisorID: supervisor.ID,
		VehicleID:    vehicle.ID,
		DriverID:     assignment.DriverID,
		ServiceDay:   int32(rand.Intn(7) + 1),
		ServiceStart: fmt.Sprintf("%02d:%02d:00", startHour, rand.Intn(60)),
		ServiceEnd:   fmt.Sprintf("%02d:%02d:00", startHour+duration, rand.Intn(60)),
		ManpowerIDs:  assignment.ManpowerIDs,
	}
}
